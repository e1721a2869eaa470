package ports

import (
	"context"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
)

// CastService is the exactly-once vote protocol: claim the voter, record the
// vote, and compensate the claim when recording cannot complete.
type CastService interface {
	// Cast records one vote for the voter. Outcomes are domain.ErrAlreadyVoted,
	// domain.ErrCandidateNotFound, domain.ErrCandidateDeleted,
	// domain.ErrServiceUnavailable, or a receipt at commit. A caller that
	// cancels after the claim succeeded still gets the operation driven to a
	// terminal state.
	Cast(ctx context.Context, voterID, candidateID uuid.UUID) (domain.CastReceipt, error)
}
