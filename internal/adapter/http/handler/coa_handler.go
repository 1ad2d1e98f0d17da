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

// ChartHandler serves the chart-of-accounts endpoints.
type ChartHandler struct {
	chart *usecase.ChartUseCase
	gl    *usecase.PostingUseCase
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(chart *usecase.ChartUseCase, gl *usecase.PostingUseCase) *ChartHandler {
	return &ChartHandler{chart: chart, gl: gl}
}

// Create adds a chart-of-accounts node.
func (h *ChartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	actor, _ := middleware.IdentityFromContext(r.Context())

	account, err := h.chart.CreateAccount(r.Context(), req.ToUseCaseInput(actor))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get returns one account by id.
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.chart.GetAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// GetByCode returns one account by chart code.
func (h *ChartHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	account, err := h.chart.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List returns accounts, optionally filtered by type.
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)
	accountType := domain.AccountType(r.URL.Query().Get("type"))

	accounts, err := h.chart.ListAccounts(r.Context(), accountType, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Seed installs the default agency chart. Idempotent: existing codes are
// skipped.
func (h *ChartHandler) Seed(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.IdentityFromContext(r.Context())

	result, err := h.chart.Seed(r.Context(), actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"created": result.Created,
		"skipped": result.Skipped,
	})
}

// Deactivate retires an account from further posting.
func (h *ChartHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.IdentityFromContext(r.Context())

	if err := h.chart.DeactivateAccount(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Entries lists the journal lines on an account, newest first.
func (h *ChartHandler) Entries(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.gl.ListAccountEntries(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]*dto.JournalEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = &dto.JournalEntryResponse{
			ID:          e.ID,
			AccountID:   e.AccountID,
			AccountCode: e.AccountCode,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
