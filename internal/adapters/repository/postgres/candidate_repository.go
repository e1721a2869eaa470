package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
)

type candidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) ports.CandidateRepository {
	return &candidateRepository{
		db: db,
	}
}

func (r *candidateRepository) Save(ctx context.Context, candidate *domain.Candidate) error {
	query := `
		INSERT INTO candidates (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, candidate.ID, candidate.Name, candidate.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	query := `
		SELECT id, name, vote_count, created_at, deleted_at
		FROM candidates
		WHERE id = $1
	`
	candidate := &domain.Candidate{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&candidate.ID,
		&candidate.Name,
		&candidate.VoteCount,
		&candidate.CreatedAt,
		&candidate.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

func (r *candidateRepository) List(ctx context.Context) ([]*domain.Candidate, error) {
	query := `
		SELECT id, name, vote_count, created_at, deleted_at
		FROM candidates
		WHERE deleted_at IS NULL
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.Candidate
	for rows.Next() {
		candidate := &domain.Candidate{}
		if err := rows.Scan(
			&candidate.ID,
			&candidate.Name,
			&candidate.VoteCount,
			&candidate.CreatedAt,
			&candidate.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return candidates, nil
}

func (r *candidateRepository) Rename(ctx context.Context, id uuid.UUID, name string) error {
	query := `UPDATE candidates SET name = $2 WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("failed to rename candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rename result: %w", err)
	}
	if affected == 0 {
		return r.missingReason(ctx, id)
	}
	return nil
}

func (r *candidateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE candidates SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete candidate: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return r.missingReason(ctx, id)
	}
	return nil
}

// missingReason distinguishes an unknown candidate from a soft-deleted one
// when a guarded update matched no rows.
func (r *candidateRepository) missingReason(ctx context.Context, id uuid.UUID) error {
	candidate, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if candidate.DeletedAt != nil {
		return domain.ErrCandidateDeleted
	}
	return domain.ErrCandidateNotFound
}
