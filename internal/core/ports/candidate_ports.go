package ports

import (
	"context"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/google/uuid"
)

type CandidateRepository interface {
	Save(ctx context.Context, candidate *domain.Candidate) error
	// GetByID returns the candidate including soft-deleted ones, so
	// historical vote records stay attributable.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
	// List returns non-deleted candidates in creation order.
	List(ctx context.Context) ([]*domain.Candidate, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type CreateCandidateInput struct {
	Name string
}

type CandidateService interface {
	Create(ctx context.Context, input CreateCandidateInput) (*domain.Candidate, error)
	List(ctx context.Context) ([]*domain.Candidate, error)
	Rename(ctx context.Context, id string, name string) (*domain.Candidate, error)
	SoftDelete(ctx context.Context, id string) error
}
