package ports

import (
	"context"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
)

// ReconcileStore exposes the read/repair operations reconciliation needs.
// It is read-only with respect to vote records; the only write is the
// counter-cache repair.
type ReconcileStore interface {
	// CountsFromLog recounts votes per candidate from the vote log,
	// including votes for soft-deleted candidates.
	CountsFromLog(ctx context.Context) (map[uuid.UUID]int64, error)
	// CachedCounts returns every candidate's cached counter, including
	// soft-deleted candidates.
	CachedCounts(ctx context.Context) (map[uuid.UUID]int64, error)
	RepairCount(ctx context.Context, candidateID uuid.UUID, count int64) error
	// ClaimedWithoutRecord lists voters with HasVoted set but no vote record.
	ClaimedWithoutRecord(ctx context.Context) ([]uuid.UUID, error)
	// RecordedWithoutClaim lists voters a vote record exists for but whom the
	// ledger does not show as having voted.
	RecordedWithoutClaim(ctx context.Context) ([]uuid.UUID, error)
}

// AlertSink receives reconciliation findings. How they are displayed or
// routed is up to the adapter.
type AlertSink interface {
	CounterDrift(ctx context.Context, drift domain.CounterDrift)
	VoterMismatch(ctx context.Context, mismatch domain.VoterMismatch)
}

type ReconcileService interface {
	Run(ctx context.Context) (domain.ReconciliationReport, error)
}
