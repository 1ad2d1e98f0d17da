package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to a status code and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), err.Error(), "")
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrFloatAccountNotFound),
		errors.Is(err, domain.ErrPostingNotFound),
		errors.Is(err, domain.ErrMappingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode),
		errors.Is(err, domain.ErrDuplicateMapping),
		errors.Is(err, domain.ErrDuplicatePosting),
		errors.Is(err, domain.ErrAlreadyReversed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrParentNotFound),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrUnknownTemplate),
		errors.Is(err, domain.ErrNoDrift),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidAccountCode),
		errors.Is(err, domain.ErrInvalidBranchID),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrMetadataTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseTimeQuery parses an RFC 3339 or date-only query parameter.
func parseTimeQuery(r *http.Request, key string) (time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return t, true
	}
	return time.Time{}, false
}
