package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/google/uuid"
)

type voterLedger struct {
	db *sql.DB
}

func NewVoterLedger(db *sql.DB) ports.VoterLedger {
	return &voterLedger{
		db: db,
	}
}

// TryClaim is a single-statement compare-and-set: the conditional upsert
// flips has_voted only when it is currently false, so exactly one concurrent
// caller per voter ever sees a claimed row. Unknown voter ids are registered
// on first contact; the identity collaborator upstream is trusted.
func (r *voterLedger) TryClaim(ctx context.Context, voterID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO voters (id, has_voted, voted_at)
		VALUES ($1, TRUE, NOW())
		ON CONFLICT (id) DO UPDATE
		SET has_voted = TRUE, voted_at = NOW()
		WHERE NOT voters.has_voted
	`
	res, err := r.db.ExecContext(ctx, query, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to claim voter: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return affected == 1, nil
}

func (r *voterLedger) Release(ctx context.Context, voterID uuid.UUID) error {
	query := `
		UPDATE voters
		SET has_voted = FALSE, voted_at = NULL
		WHERE id = $1 AND has_voted
	`
	res, err := r.db.ExecContext(ctx, query, voterID)
	if err != nil {
		return fmt.Errorf("failed to release voter: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read release result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotClaimed
	}
	return nil
}
