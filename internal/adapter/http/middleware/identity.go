package middleware

import (
	"context"
	"net/http"

	"github.com/sankopay/agencyledger/internal/domain"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// IdentityContextKey is the context key for the acting identity.
	IdentityContextKey ContextKey = "identity"

	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"
	branchIDHeader = "X-Branch-ID"
)

// Identity resolves the acting user from the headers set by the upstream
// gateway. Authentication happens there; this service only trusts and scopes.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(userIDHeader)
		if userID == "" {
			http.Error(w, "missing user identity", http.StatusUnauthorized)
			return
		}

		role := domain.Role(r.Header.Get(userRoleHeader))
		if !role.IsValid() {
			http.Error(w, "invalid or missing role", http.StatusUnauthorized)
			return
		}

		identity := domain.Identity{
			UserID:   userID,
			Role:     role,
			BranchID: r.Header.Get(branchIDHeader),
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireMutate rejects identities that cannot perform money-moving
// operations.
func RequireMutate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.Role.CanMutate() {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireConfigure rejects identities that cannot change the chart or
// mappings.
func RequireConfigure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || !identity.Role.CanConfigure() {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext extracts the acting identity from context.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(domain.Identity)
	return identity, ok
}
