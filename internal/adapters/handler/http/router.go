package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	voteHandler *VoteHandler,
	tallyHandler *TallyHandler,
	candidateHandler *CandidateHandler,
	reconcileHandler *ReconcileHandler,
	jwtSecret []byte,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tally", tallyHandler.GetTally)
		r.Get("/candidates", candidateHandler.ListCandidates)

		r.Group(func(r chi.Router) {
			r.Use(Auth(jwtSecret))
			r.Post("/votes", voteHandler.CastVote)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(Auth(jwtSecret))
			r.Use(RequireAdmin)
			r.Post("/candidates", candidateHandler.CreateCandidate)
			r.Patch("/candidates/{id}", candidateHandler.RenameCandidate)
			r.Delete("/candidates/{id}", candidateHandler.DeleteCandidate)
			r.Post("/reconcile", reconcileHandler.RunReconciliation)
		})
	})

	return r
}
