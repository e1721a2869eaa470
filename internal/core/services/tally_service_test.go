package services

import (
	"context"
	"testing"
	"time"

	"github.com/ballothq/ballotbox/internal/adapters/repository/memory"
	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addCandidateAt(t *testing.T, store *memory.Store, name string, createdAt time.Time) uuid.UUID {
	t.Helper()

	candidate := &domain.Candidate{ID: uuid.New(), Name: name, CreatedAt: createdAt}
	require.NoError(t, store.Save(context.Background(), candidate))
	return candidate.ID
}

func castVotes(t *testing.T, store *memory.Store, candidateID uuid.UUID, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		voterID := uuid.New()
		claimed, err := store.TryClaim(context.Background(), voterID)
		require.NoError(t, err)
		require.True(t, claimed)
		_, err = store.RecordVote(context.Background(), candidateID, voterID, time.Now())
		require.NoError(t, err)
	}
}

func TestTallyOrderedByVotesThenCreation(t *testing.T) {
	store := memory.NewStore()
	base := time.Now()
	ada := addCandidateAt(t, store, "Ada", base)
	grace := addCandidateAt(t, store, "Grace", base.Add(time.Second))
	edsger := addCandidateAt(t, store, "Edsger", base.Add(2*time.Second))

	castVotes(t, store, grace, 3)
	castVotes(t, store, ada, 1)
	castVotes(t, store, edsger, 1)

	entries, err := NewTallyService(store).Tally(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, grace, entries[0].CandidateID)
	// Ada and Edsger are tied; creation order breaks the tie.
	assert.Equal(t, ada, entries[1].CandidateID)
	assert.Equal(t, edsger, entries[2].CandidateID)

	assert.InDelta(t, 60.0, entries[0].Percentage, 0.001)
	assert.InDelta(t, 20.0, entries[1].Percentage, 0.001)
	assert.InDelta(t, 20.0, entries[2].Percentage, 0.001)
}

func TestTallyZeroVotesHasZeroPercentages(t *testing.T) {
	store := memory.NewStore()
	addCandidateAt(t, store, "Ada", time.Now())
	addCandidateAt(t, store, "Grace", time.Now().Add(time.Second))

	entries, err := NewTallyService(store).Tally(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, int64(0), e.VoteCount)
		assert.Equal(t, 0.0, e.Percentage)
	}
}

// Soft-deleted candidates disappear from the tally but their recorded votes
// still count toward the ledger invariant.
func TestTallyExcludesSoftDeletedCandidates(t *testing.T) {
	store := memory.NewStore()
	ada := addCandidateAt(t, store, "Ada", time.Now())
	retired := addCandidateAt(t, store, "Retired", time.Now().Add(time.Second))

	castVotes(t, store, retired, 5)
	castVotes(t, store, ada, 2)
	require.NoError(t, store.SoftDelete(context.Background(), retired))

	entries, err := NewTallyService(store).Tally(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ada, entries[0].CandidateID)
	assert.InDelta(t, 100.0, entries[0].Percentage, 0.001)

	// Sum invariant over the full log, deleted candidates included.
	counts, err := store.CountsFromLog(context.Background())
	require.NoError(t, err)
	var total int64
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, store.ClaimedVoters(), total)
	assert.Equal(t, int64(7), total)
}
