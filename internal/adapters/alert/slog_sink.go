// Package alert provides the production alert sink for reconciliation
// findings, emitting them as structured log records for the on-call pipeline
// to pick up.
package alert

import (
	"context"
	"log/slog"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
)

type slogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) ports.AlertSink {
	return &slogSink{
		logger: logger,
	}
}

func (s *slogSink) CounterDrift(_ context.Context, drift domain.CounterDrift) {
	s.logger.Warn("vote counter drift detected",
		"alert", "counter_drift",
		"candidate_id", drift.CandidateID,
		"cached", drift.Cached,
		"actual", drift.Actual,
		"delta", drift.Delta(),
	)
}

func (s *slogSink) VoterMismatch(_ context.Context, mismatch domain.VoterMismatch) {
	s.logger.Error("voter state mismatch requires manual resolution",
		"alert", "voter_mismatch",
		"voter_id", mismatch.VoterID,
		"kind", string(mismatch.Kind),
	)
}
