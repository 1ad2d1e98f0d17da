package handler

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/adapter/http/middleware"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// SettlementHandler serves the settlement transfer endpoint.
type SettlementHandler struct {
	settlements *usecase.SettlementUseCase
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlements *usecase.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

// Create moves float between two accounts. Both balances change or neither;
// the GL mirror posts best-effort and reconciliation heals any gap.
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())

	result, err := h.settlements.Settle(r.Context(), usecase.SettleInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Reference:     req.Reference,
		Actor:         actor,
		RequestID:     chimiddleware.GetReqID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"settlement_id":     result.SettlementID,
		"from_balance":      result.FromBalance,
		"to_balance":        result.ToBalance,
		"gl_transaction_id": result.GLTransactionID,
		"gl_posted":         result.GLPosted,
	})
}
