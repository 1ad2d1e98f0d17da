package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sankopay/agencyledger/internal/domain"
)

func identityRequest(userID, role, branchID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/floats", nil)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	if branchID != "" {
		req.Header.Set("X-Branch-ID", branchID)
	}
	return req
}

func TestIdentity_ResolvesHeaders(t *testing.T) {
	var got domain.Identity
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, identityRequest("user-1", "operator", "branch-1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got.UserID != "user-1" || got.Role != domain.RoleOperator || got.BranchID != "branch-1" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestIdentity_RejectsMissingUser(t *testing.T) {
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, identityRequest("", "operator", ""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestIdentity_RejectsUnknownRole(t *testing.T) {
	handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, identityRequest("user-1", "superuser", ""))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireMutate(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"operator", http.StatusOK},
		{"viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			handler := Identity(RequireMutate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, identityRequest("user-1", tt.role, ""))

			if rr.Code != tt.want {
				t.Fatalf("role %s: expected %d, got %d", tt.role, tt.want, rr.Code)
			}
		})
	}
}

func TestRequireConfigure(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"operator", http.StatusForbidden},
		{"viewer", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			handler := Identity(RequireConfigure(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, identityRequest("user-1", tt.role, ""))

			if rr.Code != tt.want {
				t.Fatalf("role %s: expected %d, got %d", tt.role, tt.want, rr.Code)
			}
		})
	}
}
