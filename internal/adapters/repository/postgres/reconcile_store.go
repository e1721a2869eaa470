package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
)

type reconcileStore struct {
	db *sql.DB
}

func NewReconcileStore(db *sql.DB) ports.ReconcileStore {
	return &reconcileStore{
		db: db,
	}
}

func (r *reconcileStore) CountsFromLog(ctx context.Context) (map[uuid.UUID]int64, error) {
	query := `
		SELECT candidate_id, COUNT(*)
		FROM votes
		GROUP BY candidate_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to recount votes: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

func (r *reconcileStore) CachedCounts(ctx context.Context) (map[uuid.UUID]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, vote_count FROM candidates`)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached counts: %w", err)
	}
	defer rows.Close()

	return scanCounts(rows)
}

func (r *reconcileStore) RepairCount(ctx context.Context, candidateID uuid.UUID, count int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE candidates SET vote_count = $2 WHERE id = $1`,
		candidateID, count,
	)
	if err != nil {
		return fmt.Errorf("failed to repair vote count: %w", err)
	}
	return nil
}

func (r *reconcileStore) ClaimedWithoutRecord(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT v.id
		FROM voters v
		LEFT JOIN votes vt ON vt.voter_id = v.id
		WHERE v.has_voted AND vt.id IS NULL
	`
	return r.queryVoterIDs(ctx, query)
}

func (r *reconcileStore) RecordedWithoutClaim(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT vt.voter_id
		FROM votes vt
		LEFT JOIN voters v ON v.id = vt.voter_id
		WHERE v.id IS NULL OR NOT v.has_voted
	`
	return r.queryVoterIDs(ctx, query)
}

func (r *reconcileStore) queryVoterIDs(ctx context.Context, query string) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan voter mismatches: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan voter id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voter ids: %w", err)
	}
	return ids, nil
}

func scanCounts(rows *sql.Rows) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64)
	for rows.Next() {
		var id uuid.UUID
		var count int64
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}
