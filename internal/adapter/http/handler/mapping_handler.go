package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sankopay/agencyledger/internal/adapter/http/dto"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// MappingHandler serves the float-GL mapping endpoints.
type MappingHandler struct {
	mappings *usecase.MappingUseCase
}

// NewMappingHandler creates a new MappingHandler.
func NewMappingHandler(mappings *usecase.MappingUseCase) *MappingHandler {
	return &MappingHandler{mappings: mappings}
}

// Create registers a mapping. Exactly one of float_account_id and
// transaction_type must be set.
func (h *MappingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	mapping, err := h.mappings.CreateMapping(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MappingFromDomain(mapping))
}

// List returns mappings, scoped to a branch when given.
func (h *MappingHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)
	offset := parseIntQuery(r, "offset", 0)
	branchID := r.URL.Query().Get("branch_id")

	mappings, err := h.mappings.ListMappings(r.Context(), branchID, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MappingsFromDomain(mappings))
}

// Delete deactivates a mapping. History stays intact; only resolution stops.
func (h *MappingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mappings.DeactivateMapping(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
