package domain

import (
	"time"

	"github.com/google/uuid"
)

// TallyEntry is one row of the public tally, ordered by vote count descending
// with ties broken by candidate creation order. Percentage is 0-100 over the
// total across non-deleted candidates, 0 when no votes exist.
type TallyEntry struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	VoteCount   int64     `json:"vote_count"`
	Percentage  float64   `json:"percentage"`
}

// CounterDrift reports a candidate whose cached counter disagreed with a
// recount of the vote log.
type CounterDrift struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Cached      int64     `json:"cached"`
	Actual      int64     `json:"actual"`
}

// Delta is the correction applied to the cached counter.
func (d CounterDrift) Delta() int64 {
	return d.Actual - d.Cached
}

type MismatchKind string

const (
	// MismatchClaimedWithoutRecord: voter marked as having voted but no vote
	// record exists for them.
	MismatchClaimedWithoutRecord MismatchKind = "claimed_without_record"
	// MismatchRecordedWithoutClaim: a vote record exists for a voter the
	// ledger does not show as having voted.
	MismatchRecordedWithoutClaim MismatchKind = "recorded_without_claim"
)

// VoterMismatch reports a voter whose ledger state and vote-log state
// disagree. These are surfaced for manual resolution, never auto-corrected.
type VoterMismatch struct {
	VoterID uuid.UUID    `json:"voter_id"`
	Kind    MismatchKind `json:"kind"`
}

// ReconciliationReport summarizes one reconciliation run.
type ReconciliationReport struct {
	StartedAt         time.Time       `json:"started_at"`
	FinishedAt        time.Time       `json:"finished_at"`
	CandidatesChecked int             `json:"candidates_checked"`
	Drifts            []CounterDrift  `json:"drifts,omitempty"`
	Mismatches        []VoterMismatch `json:"mismatches,omitempty"`
}
