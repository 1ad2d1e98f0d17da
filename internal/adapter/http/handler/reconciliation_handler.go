package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sankopay/agencyledger/internal/adapter/http/middleware"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// ReconciliationHandler serves the float-GL reconciliation endpoints.
type ReconciliationHandler struct {
	recon *usecase.ReconciliationUseCase
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(recon *usecase.ReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{recon: recon}
}

// Reconcile compares one float account's cached balance against its derived
// GL balance and reports the drift. Read-only; nothing is corrected here.
func (h *ReconciliationHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	result, err := h.recon.Reconcile(r.Context(), chi.URLParam(r, "floatAccountId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Report reconciles every active float account.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.recon.ReconcileAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Repair posts a supervised catch-up entry for a drifted account against the
// reconciliation suspense account.
func (h *ReconciliationHandler) Repair(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.IdentityFromContext(r.Context())

	result, err := h.recon.Repair(r.Context(), chi.URLParam(r, "floatAccountId"), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
