package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/go-chi/chi/v5"
)

type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		service: service,
	}
}

type candidateRequest struct {
	Name string `json:"name"`
}

func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	candidate, err := h.service.Create(r.Context(), ports.CreateCandidateInput{Name: req.Name})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(candidate); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if candidates == nil {
		candidates = []*domain.Candidate{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(candidates); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *CandidateHandler) RenameCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	candidate, err := h.service.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeCandidateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(candidate); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		writeCandidateError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeCandidateError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidCandidateID) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, domain.ErrCandidateNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if errors.Is(err, domain.ErrCandidateDeleted) {
		http.Error(w, err.Error(), http.StatusGone)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}
