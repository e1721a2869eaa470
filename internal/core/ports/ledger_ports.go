package ports

import (
	"context"

	"github.com/google/uuid"
)

// VoterLedger is the single source of truth for "has this voter voted".
// Both operations must be atomic per voter id: no two callers may ever
// observe claimed == true for the same voter, and Release must fail on a
// voter that is not currently claimed.
//
// Only the cast service may hold this interface; handlers are wired against
// CastService so the compensation-only Release never leaks outward.
type VoterLedger interface {
	// TryClaim transitions HasVoted from false to true as one indivisible
	// step. It returns true only to the caller that performed the transition.
	TryClaim(ctx context.Context, voterID uuid.UUID) (bool, error)
	// Release undoes a claim whose vote was never recorded. Returns
	// domain.ErrNotClaimed if the voter is not currently claimed.
	Release(ctx context.Context, voterID uuid.UUID) error
}
