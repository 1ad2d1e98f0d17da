package handler

import (
	"net/http"
	"time"

	"github.com/sankopay/agencyledger/internal/usecase"
)

// StatementHandler serves the financial statement endpoints.
type StatementHandler struct {
	statements *usecase.StatementUseCase
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statements *usecase.StatementUseCase) *StatementHandler {
	return &StatementHandler{statements: statements}
}

// BalanceSheet returns the statement of financial position as of a date.
// Defaults to today when as_of is absent.
func (h *StatementHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseTimeQuery(r, "as_of")
	if !ok {
		asOf = time.Now().UTC()
	}
	branchID := r.URL.Query().Get("branch_id")

	bs, err := h.statements.GenerateBalanceSheet(r.Context(), asOf, branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bs)
}

// ProfitAndLoss returns the income statement for a period. Defaults to
// year-to-date when the range is absent.
func (h *StatementHandler) ProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	from, to := periodRange(r)
	branchID := r.URL.Query().Get("branch_id")

	pl, err := h.statements.GenerateProfitAndLoss(r.Context(), from, to, branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pl)
}

// Equity returns the statement of changes in equity for a period.
func (h *StatementHandler) Equity(w http.ResponseWriter, r *http.Request) {
	from, to := periodRange(r)
	branchID := r.URL.Query().Get("branch_id")

	stmt, err := h.statements.GenerateEquityStatement(r.Context(), from, to, branchID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stmt)
}

// TrialBalance returns the per-account debit/credit listing as of a date.
func (h *StatementHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := parseTimeQuery(r, "as_of")
	if !ok {
		asOf = time.Now().UTC()
	}

	tb, err := h.statements.GenerateTrialBalance(r.Context(), asOf)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tb)
}

func periodRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now().UTC()

	from, ok := parseTimeQuery(r, "from")
	if !ok {
		from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	to, ok := parseTimeQuery(r, "to")
	if !ok {
		to = now
	}
	return from, to
}
