package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type tallyStore struct {
	db *sql.DB
}

func NewTallyStore(db *sql.DB) ports.TallyStore {
	return &tallyStore{
		db: db,
	}
}

// RecordVote appends the vote record and increments the candidate's counter
// in one transaction, so no reader ever observes one without the other. The
// unique constraint on votes.voter_id is the defensive idempotency check:
// a replayed append fails with ErrDuplicateVoter and leaves state untouched.
func (r *tallyStore) RecordVote(ctx context.Context, candidateID, voterID uuid.UUID, at time.Time) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var deletedAt *time.Time
	err = tx.QueryRowContext(ctx,
		`SELECT deleted_at FROM candidates WHERE id = $1 FOR UPDATE`,
		candidateID,
	).Scan(&deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrCandidateNotFound
		}
		return 0, fmt.Errorf("failed to lock candidate: %w", err)
	}
	if deletedAt != nil {
		return 0, domain.ErrCandidateDeleted
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, voter_id, candidate_id, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New(), voterID, candidateID, at,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateVoter
		}
		return 0, fmt.Errorf("failed to append vote record: %w", err)
	}

	var count int64
	err = tx.QueryRowContext(ctx,
		`UPDATE candidates SET vote_count = vote_count + 1 WHERE id = $1 RETURNING vote_count`,
		candidateID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment vote count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit vote: %w", err)
	}

	return count, nil
}

// GetTally orders by the cached counter with candidate creation order as the
// deterministic tie-break. Soft-deleted candidates are excluded from the
// public snapshot but keep their rows and counters for audit.
func (r *tallyStore) GetTally(ctx context.Context) ([]domain.TallyEntry, error) {
	query := `
		SELECT id, name, vote_count
		FROM candidates
		WHERE deleted_at IS NULL
		ORDER BY vote_count DESC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read tally: %w", err)
	}
	defer rows.Close()

	var entries []domain.TallyEntry
	for rows.Next() {
		var e domain.TallyEntry
		if err := rows.Scan(&e.CandidateID, &e.Name, &e.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan tally entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tally: %w", err)
	}
	return entries, nil
}

func (r *tallyStore) VoteByVoter(ctx context.Context, voterID uuid.UUID) (*domain.VoteRecord, error) {
	query := `
		SELECT id, voter_id, candidate_id, created_at
		FROM votes
		WHERE voter_id = $1
	`
	record := &domain.VoteRecord{}
	err := r.db.QueryRowContext(ctx, query, voterID).Scan(
		&record.ID,
		&record.VoterID,
		&record.CandidateID,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote record: %w", err)
	}
	return record, nil
}
