package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/adapter/http/middleware"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// PostingHandler serves the GL posting endpoints.
type PostingHandler struct {
	posting *usecase.PostingUseCase
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(posting *usecase.PostingUseCase) *PostingHandler {
	return &PostingHandler{posting: posting}
}

// Post mirrors a channel transaction into the GL. Idempotent on
// (source_module, source_transaction_id); re-posting returns the original
// transaction with duplicate set.
func (h *PostingHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostGLEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())

	result, err := h.posting.Post(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := dto.GLTransactionFromDomain(result.Transaction)
	resp.Duplicate = result.Duplicate

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// Get returns a GL transaction with its journal lines.
func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.posting.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GLTransactionFromDomain(txn))
}

// Reverse posts a negating transaction and marks the original reversed.
func (h *PostingHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ReverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required", "")
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())

	reversal, err := h.posting.Reverse(r.Context(), chi.URLParam(r, "id"), req.Reason, actor.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.GLTransactionFromDomain(reversal))
}
