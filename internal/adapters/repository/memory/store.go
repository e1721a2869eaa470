// Package memory provides mutex-guarded in-memory adapters for the voter
// ledger and tally store. It backs the unit tests and local runs; the
// postgres adapters are the production implementations.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
)

// Store implements ports.VoterLedger, ports.TallyStore,
// ports.CandidateRepository and ports.ReconcileStore over process memory.
// The mutex is held only for the instant of each atomic step, so independent
// casts never serialize beyond their own claim/record operations.
type Store struct {
	mu sync.RWMutex

	voters     map[uuid.UUID]*domain.Voter
	candidates map[uuid.UUID]*domain.Candidate
	votes      []domain.VoteRecord
	byVoter    map[uuid.UUID]int // index into votes
}

func NewStore() *Store {
	return &Store{
		voters:     make(map[uuid.UUID]*domain.Voter),
		candidates: make(map[uuid.UUID]*domain.Candidate),
		byVoter:    make(map[uuid.UUID]int),
	}
}

func (s *Store) TryClaim(_ context.Context, voterID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter, ok := s.voters[voterID]
	if !ok {
		// The identity collaborator is trusted; first contact registers the
		// voter, same as the postgres upsert.
		voter = &domain.Voter{ID: voterID, CreatedAt: time.Now()}
		s.voters[voterID] = voter
	}
	if voter.HasVoted {
		return false, nil
	}

	now := time.Now()
	voter.HasVoted = true
	voter.VotedAt = &now
	return true, nil
}

func (s *Store) Release(_ context.Context, voterID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter, ok := s.voters[voterID]
	if !ok || !voter.HasVoted {
		return domain.ErrNotClaimed
	}

	voter.HasVoted = false
	voter.VotedAt = nil
	return nil
}

func (s *Store) RecordVote(_ context.Context, candidateID, voterID uuid.UUID, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[candidateID]
	if !ok {
		return 0, domain.ErrCandidateNotFound
	}
	if candidate.DeletedAt != nil {
		return 0, domain.ErrCandidateDeleted
	}
	if _, exists := s.byVoter[voterID]; exists {
		return 0, domain.ErrDuplicateVoter
	}

	s.votes = append(s.votes, domain.VoteRecord{
		ID:          uuid.New(),
		VoterID:     voterID,
		CandidateID: candidateID,
		CreatedAt:   at,
	})
	s.byVoter[voterID] = len(s.votes) - 1
	candidate.VoteCount++
	return candidate.VoteCount, nil
}

func (s *Store) GetTally(_ context.Context) ([]domain.TallyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]*domain.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.DeletedAt == nil {
			visible = append(visible, c)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		if visible[i].VoteCount != visible[j].VoteCount {
			return visible[i].VoteCount > visible[j].VoteCount
		}
		return visible[i].CreatedAt.Before(visible[j].CreatedAt)
	})

	entries := make([]domain.TallyEntry, 0, len(visible))
	for _, c := range visible {
		entries = append(entries, domain.TallyEntry{
			CandidateID: c.ID,
			Name:        c.Name,
			VoteCount:   c.VoteCount,
		})
	}
	return entries, nil
}

func (s *Store) VoteByVoter(_ context.Context, voterID uuid.UUID) (*domain.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byVoter[voterID]
	if !ok {
		return nil, nil
	}
	record := s.votes[idx]
	return &record, nil
}

func (s *Store) Save(_ context.Context, candidate *domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *candidate
	s.candidates[candidate.ID] = &copied
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate, ok := s.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	copied := *candidate
	return &copied, nil
}

func (s *Store) List(_ context.Context) ([]*domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]*domain.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.DeletedAt == nil {
			copied := *c
			candidates = append(candidates, &copied)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates, nil
}

func (s *Store) Rename(_ context.Context, id uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[id]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	if candidate.DeletedAt != nil {
		return domain.ErrCandidateDeleted
	}
	candidate.Name = name
	return nil
}

func (s *Store) SoftDelete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[id]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	if candidate.DeletedAt != nil {
		return domain.ErrCandidateDeleted
	}
	now := time.Now()
	candidate.DeletedAt = &now
	return nil
}

func (s *Store) CountsFromLog(_ context.Context) (map[uuid.UUID]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	for _, record := range s.votes {
		counts[record.CandidateID]++
	}
	return counts, nil
}

func (s *Store) CachedCounts(_ context.Context) (map[uuid.UUID]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64, len(s.candidates))
	for id, c := range s.candidates {
		counts[id] = c.VoteCount
	}
	return counts, nil
}

func (s *Store) RepairCount(_ context.Context, candidateID uuid.UUID, count int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[candidateID]
	if !ok {
		return domain.ErrCandidateNotFound
	}
	candidate.VoteCount = count
	return nil
}

func (s *Store) ClaimedWithoutRecord(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var voters []uuid.UUID
	for id, voter := range s.voters {
		if voter.HasVoted {
			if _, ok := s.byVoter[id]; !ok {
				voters = append(voters, id)
			}
		}
	}
	return voters, nil
}

func (s *Store) RecordedWithoutClaim(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var voters []uuid.UUID
	for voterID := range s.byVoter {
		voter, ok := s.voters[voterID]
		if !ok || !voter.HasVoted {
			voters = append(voters, voterID)
		}
	}
	return voters, nil
}

// Voter returns a copy of the ledger entry, or nil when the voter is
// unknown. Test helper.
func (s *Store) Voter(id uuid.UUID) *domain.Voter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voter, ok := s.voters[id]
	if !ok {
		return nil
	}
	copied := *voter
	return &copied
}

// ClaimedVoters counts voters with HasVoted set. Test helper for the sum
// invariant.
func (s *Store) ClaimedVoters() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, voter := range s.voters {
		if voter.HasVoted {
			n++
		}
	}
	return n
}

// SetCachedCount overwrites a candidate's counter cache without touching the
// vote log, simulating drift for reconciliation tests.
func (s *Store) SetCachedCount(candidateID uuid.UUID, count int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate, ok := s.candidates[candidateID]; ok {
		candidate.VoteCount = count
	}
}
