package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidate's VoteCount is a denormalized cache over the vote log. It is only
// ever written by the tally store's record operation and by reconciliation.
type Candidate struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	VoteCount int64      `json:"vote_count"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
