package services

import (
	"context"
	"testing"

	"github.com/ballothq/ballotbox/internal/adapters/repository/memory"
	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCandidateRequiresName(t *testing.T) {
	svc := NewCandidateService(memory.NewStore())

	_, err := svc.Create(context.Background(), ports.CreateCandidateInput{})
	require.Error(t, err)
}

func TestCreateAndListCandidates(t *testing.T) {
	svc := NewCandidateService(memory.NewStore())

	ada, err := svc.Create(context.Background(), ports.CreateCandidateInput{Name: "Ada"})
	require.NoError(t, err)
	grace, err := svc.Create(context.Background(), ports.CreateCandidateInput{Name: "Grace"})
	require.NoError(t, err)

	candidates, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, ada.ID, candidates[0].ID)
	assert.Equal(t, grace.ID, candidates[1].ID)
}

func TestRenameCandidate(t *testing.T) {
	svc := NewCandidateService(memory.NewStore())

	candidate, err := svc.Create(context.Background(), ports.CreateCandidateInput{Name: "Ade"})
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), candidate.ID.String(), "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", renamed.Name)

	_, err = svc.Rename(context.Background(), "not-a-uuid", "x")
	require.ErrorIs(t, err, domain.ErrInvalidCandidateID)
}

func TestSoftDeleteRemovesFromListing(t *testing.T) {
	store := memory.NewStore()
	svc := NewCandidateService(store)

	candidate, err := svc.Create(context.Background(), ports.CreateCandidateInput{Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(context.Background(), candidate.ID.String()))

	candidates, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)

	// Still addressable for audit.
	kept, err := store.GetByID(context.Background(), candidate.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept.DeletedAt)

	// But no longer renameable.
	_, err = svc.Rename(context.Background(), candidate.ID.String(), "x")
	require.ErrorIs(t, err, domain.ErrCandidateDeleted)
}
