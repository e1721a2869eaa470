package services

import (
	"context"
	"fmt"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
)

type tallyService struct {
	store ports.TallyStore
}

func NewTallyService(store ports.TallyStore) ports.TallyService {
	return &tallyService{
		store: store,
	}
}

// Tally returns the live tally snapshot with percentages over the total
// across non-deleted candidates. The store guarantees ordering (vote count
// descending, creation order ascending) and point-in-time consistency.
func (s *tallyService) Tally(ctx context.Context) ([]domain.TallyEntry, error) {
	entries, err := s.store.GetTally(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tally: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.VoteCount
	}

	if total > 0 {
		for i := range entries {
			entries[i].Percentage = (float64(entries[i].VoteCount) / float64(total)) * 100
		}
	}

	return entries, nil
}
