package http

import (
	"encoding/json"
	"net/http"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
)

type TallyHandler struct {
	service ports.TallyService
}

func NewTallyHandler(service ports.TallyService) *TallyHandler {
	return &TallyHandler{
		service: service,
	}
}

func (h *TallyHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Tally(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []domain.TallyEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
