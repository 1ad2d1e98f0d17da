package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/adapter/http/middleware"
	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// FloatHandler serves the float account endpoints.
type FloatHandler struct {
	balances *usecase.FloatBalanceUseCase
}

// NewFloatHandler creates a new FloatHandler.
func NewFloatHandler(balances *usecase.FloatBalanceUseCase) *FloatHandler {
	return &FloatHandler{balances: balances}
}

// Create registers a float account for a branch.
func (h *FloatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFloatAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.balances.CreateFloatAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.FloatAccountFromDomain(account))
}

// Get returns one float account.
func (h *FloatHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.balances.GetFloatAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FloatAccountFromDomain(account))
}

// List returns float accounts, scoped to a branch when given.
func (h *FloatHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)
	branchID := r.URL.Query().Get("branch_id")

	accounts, err := h.balances.ListFloatAccounts(r.Context(), branchID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FloatAccountsFromDomain(accounts))
}

// Adjust applies a signed delta to a float account's balance. When the caller
// asks for a GL posting, the request is enqueued atomically with the balance
// change.
func (h *FloatHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustFloatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())
	accountID := chi.URLParam(r, "id")

	input := usecase.AdjustInput{
		FloatAccountID: accountID,
		Delta:          req.Delta,
		Type:           domain.FloatTransactionType(req.Type),
		Reference:      req.Reference,
		CreatedBy:      actor.UserID,
	}

	if req.PostGL {
		fee := req.Fee
		if fee == "" {
			fee = "0"
		}
		input.PostingRequest = &domain.PostingRequestedEvent{
			SourceModule:          "float",
			SourceTransactionID:   req.Reference,
			SourceTransactionType: req.TransactionType,
			FloatAccountID:        accountID,
			BranchID:              actor.BranchID,
			Amount:                req.Delta.Abs().String(),
			Fee:                   fee,
			CreatedBy:             actor.UserID,
		}
	}

	result, err := h.balances.Adjust(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account":        dto.FloatAccountFromDomain(result.Account),
		"balance_before": result.BalanceBefore,
		"balance_after":  result.BalanceAfter,
	})
}

// Transactions lists a float account's audit trail, newest first.
func (h *FloatHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.balances.ListFloatTransactions(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FloatTransactionsFromDomain(txns))
}
