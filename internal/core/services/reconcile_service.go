package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
)

type reconcileService struct {
	store  ports.ReconcileStore
	alerts ports.AlertSink
	logger *slog.Logger
	now    func() time.Time
}

func NewReconcileService(store ports.ReconcileStore, alerts ports.AlertSink, logger *slog.Logger) ports.ReconcileService {
	return &reconcileService{
		store:  store,
		alerts: alerts,
		logger: logger,
		now:    time.Now,
	}
}

// Run recomputes every candidate's counter from the vote log and repairs any
// drift, treating the counter strictly as a cache. Voter/record mismatches
// are alerted but never auto-corrected: silently flipping HasVoted would
// grant or revoke a voting right without a trace.
func (s *reconcileService) Run(ctx context.Context) (domain.ReconciliationReport, error) {
	report := domain.ReconciliationReport{StartedAt: s.now()}

	actual, err := s.store.CountsFromLog(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to recount votes from log: %w", err)
	}
	cached, err := s.store.CachedCounts(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read cached counts: %w", err)
	}

	report.CandidatesChecked = len(cached)
	for candidateID, cachedCount := range cached {
		actualCount := actual[candidateID]
		if cachedCount == actualCount {
			continue
		}

		drift := domain.CounterDrift{
			CandidateID: candidateID,
			Cached:      cachedCount,
			Actual:      actualCount,
		}
		if err := s.store.RepairCount(ctx, candidateID, actualCount); err != nil {
			return report, fmt.Errorf("failed to repair count for candidate %s: %w", candidateID, err)
		}
		s.logger.Warn("repaired drifted vote counter",
			"candidate_id", candidateID, "cached", cachedCount, "actual", actualCount)
		s.alerts.CounterDrift(ctx, drift)
		report.Drifts = append(report.Drifts, drift)
	}

	claimed, err := s.store.ClaimedWithoutRecord(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to scan for claimed voters without records: %w", err)
	}
	for _, voterID := range claimed {
		mismatch := domain.VoterMismatch{VoterID: voterID, Kind: domain.MismatchClaimedWithoutRecord}
		s.alerts.VoterMismatch(ctx, mismatch)
		report.Mismatches = append(report.Mismatches, mismatch)
	}

	recorded, err := s.store.RecordedWithoutClaim(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to scan for records without claims: %w", err)
	}
	for _, voterID := range recorded {
		mismatch := domain.VoterMismatch{VoterID: voterID, Kind: domain.MismatchRecordedWithoutClaim}
		s.alerts.VoterMismatch(ctx, mismatch)
		report.Mismatches = append(report.Mismatches, mismatch)
	}

	report.FinishedAt = s.now()
	s.logger.Info("reconciliation finished",
		"candidates_checked", report.CandidatesChecked,
		"drifts", len(report.Drifts),
		"mismatches", len(report.Mismatches))

	return report, nil
}
