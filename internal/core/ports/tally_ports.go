package ports

import (
	"context"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
)

// TallyStore owns the append-only vote log and the per-candidate counter
// cache derived from it.
type TallyStore interface {
	// RecordVote appends a vote record and increments the candidate's counter
	// as one atomic step, returning the post-increment count. It returns
	// domain.ErrCandidateNotFound, domain.ErrCandidateDeleted, or
	// domain.ErrDuplicateVoter (without mutating state) when the vote cannot
	// be recorded. The duplicate check is independent of the voter ledger and
	// guards against replayed record attempts.
	RecordVote(ctx context.Context, candidateID, voterID uuid.UUID, at time.Time) (int64, error)
	// GetTally returns a consistent snapshot of non-deleted candidates
	// ordered by vote count descending, candidate creation order ascending.
	// Percentages are filled in by the tally service.
	GetTally(ctx context.Context) ([]domain.TallyEntry, error)
	// VoteByVoter returns the vote record for a voter, or nil when none
	// exists.
	VoteByVoter(ctx context.Context, voterID uuid.UUID) (*domain.VoteRecord, error)
}

type TallyService interface {
	Tally(ctx context.Context) ([]domain.TallyEntry, error)
}
