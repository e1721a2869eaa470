package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
)

type VoteHandler struct {
	service ports.CastService
}

func NewVoteHandler(service ports.CastService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type castVoteRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.CandidateID == uuid.Nil {
		http.Error(w, "candidate_id is required", http.StatusBadRequest)
		return
	}

	voterID, ok := r.Context().Value(VoterIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing voter context", http.StatusUnauthorized)
		return
	}

	receipt, err := h.service.Cast(r.Context(), voterID, req.CandidateID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			http.Error(w, err.Error(), http.StatusConflict)
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
		if errors.Is(err, domain.ErrServiceUnavailable) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(receipt); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
