package services

import (
	"context"
	"errors"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
)

type candidateService struct {
	repo ports.CandidateRepository
}

func NewCandidateService(repo ports.CandidateRepository) ports.CandidateService {
	return &candidateService{
		repo: repo,
	}
}

func (s *candidateService) Create(ctx context.Context, input ports.CreateCandidateInput) (*domain.Candidate, error) {
	if input.Name == "" {
		return nil, errors.New("name is required")
	}

	candidate := &domain.Candidate{
		ID:        uuid.New(),
		Name:      input.Name,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Save(ctx, candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}

func (s *candidateService) List(ctx context.Context) ([]*domain.Candidate, error) {
	return s.repo.List(ctx)
}

func (s *candidateService) Rename(ctx context.Context, id string, name string) (*domain.Candidate, error) {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidCandidateID
	}
	if name == "" {
		return nil, errors.New("name is required")
	}

	if err := s.repo.Rename(ctx, candidateID, name); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, candidateID)
}

func (s *candidateService) SoftDelete(ctx context.Context, id string) error {
	candidateID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidCandidateID
	}

	return s.repo.SoftDelete(ctx, candidateID)
}
