package domain

import (
	"time"

	"github.com/google/uuid"
)

// Voter is the ledger record for a single registered voter. HasVoted only
// moves from false to true; the sole exception is the coordinator's
// compensation path, which undoes a claim whose vote was never recorded.
type Voter struct {
	ID        uuid.UUID  `json:"id"`
	HasVoted  bool       `json:"has_voted"`
	VotedAt   *time.Time `json:"voted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
