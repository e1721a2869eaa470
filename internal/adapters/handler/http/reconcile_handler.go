package http

import (
	"encoding/json"
	"net/http"

	"github.com/ballothq/ballotbox/internal/core/ports"
)

type ReconcileHandler struct {
	service ports.ReconcileService
}

func NewReconcileHandler(service ports.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{
		service: service,
	}
}

// RunReconciliation triggers an on-demand reconciliation pass; the scheduled
// path is the cmd/reconcile binary.
func (h *ReconcileHandler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Run(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
