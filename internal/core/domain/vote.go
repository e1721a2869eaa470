package domain

import (
	"time"

	"github.com/google/uuid"
)

// VoteRecord is one entry of the append-only audit log. Records are immutable
// once appended; VoterID is unique across the log and acts as the idempotency
// key for replayed cast attempts.
type VoteRecord struct {
	ID          uuid.UUID `json:"id"`
	VoterID     uuid.UUID `json:"voter_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CastReceipt is the immutable snapshot returned to a voter whose cast
// reached a committed state. VoteCount is the candidate's count at the moment
// of commit, not a live value. Replayed marks casts that were already
// recorded by an earlier attempt.
type CastReceipt struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	VoteCount   int64     `json:"vote_count"`
	Replayed    bool      `json:"replayed,omitempty"`
}
