package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// AuditHandler serves the audit trail endpoints.
type AuditHandler struct {
	audits usecase.AuditRepository
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audits usecase.AuditRepository) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List returns audit logs matching the query filters, newest first.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.AuditFilter{
		UserID:       q.Get("user_id"),
		BranchID:     q.Get("branch_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 100),
		Offset:       parseIntQuery(r, "offset", 0),
	}
	if start, ok := parseTimeQuery(r, "start"); ok {
		filter.StartDate = &start
	}
	if end, ok := parseTimeQuery(r, "end"); ok {
		filter.EndDate = &end
	}

	logs, err := h.audits.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

// Resource returns the full audit trail of one resource.
func (h *AuditHandler) Resource(w http.ResponseWriter, r *http.Request) {
	logs, err := h.audits.GetByResourceID(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}
