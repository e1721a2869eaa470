package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballothq/ballotbox/internal/core/domain"
	"github.com/ballothq/ballotbox/internal/core/ports"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	defaultRecordRetries  = 3
	defaultRetryInterval  = 50 * time.Millisecond
	defaultRetryMaxJitter = 500 * time.Millisecond
)

type castService struct {
	ledger     ports.VoterLedger
	store      ports.TallyStore
	candidates ports.CandidateRepository
	logger     *slog.Logger

	recordRetries uint64
	retryInterval time.Duration
	now           func() time.Time
}

func NewCastService(ledger ports.VoterLedger, store ports.TallyStore, candidates ports.CandidateRepository, logger *slog.Logger) ports.CastService {
	return &castService{
		ledger:        ledger,
		store:         store,
		candidates:    candidates,
		logger:        logger,
		recordRetries: defaultRecordRetries,
		retryInterval: defaultRetryInterval,
		now:           time.Now,
	}
}

// Cast runs the claim/record/compensate protocol. Claiming the voter first
// closes the race for "who gets to vote": at most one caller per voter ever
// reaches RecordVote. The remaining risk is a failure between claim and
// record, which the compensation path undoes so the voter may retry.
func (s *castService) Cast(ctx context.Context, voterID, candidateID uuid.UUID) (domain.CastReceipt, error) {
	// A cancellation that lands before the claim resolves must leave no
	// state change.
	if err := ctx.Err(); err != nil {
		return domain.CastReceipt{}, err
	}

	claimed, err := s.ledger.TryClaim(ctx, voterID)
	if err != nil {
		return domain.CastReceipt{}, fmt.Errorf("failed to claim voter: %w", err)
	}
	if !claimed {
		return domain.CastReceipt{}, domain.ErrAlreadyVoted
	}

	// The voter is claimed. From here the operation must reach a terminal
	// state even if the original caller cancels; otherwise the voter would
	// be stuck claimed with no vote recorded.
	ctx = context.WithoutCancel(ctx)

	count, err := s.recordWithRetry(ctx, candidateID, voterID)
	switch {
	case err == nil:
		return domain.CastReceipt{CandidateID: candidateID, VoteCount: count}, nil

	case errors.Is(err, domain.ErrDuplicateVoter):
		// A prior attempt already recorded this voter's vote. The claim
		// stands; releasing it here would let the voter vote twice.
		return s.replayedReceipt(ctx, voterID)

	case errors.Is(err, domain.ErrCandidateNotFound), errors.Is(err, domain.ErrCandidateDeleted):
		s.release(ctx, voterID)
		return domain.CastReceipt{}, err

	default:
		s.logger.Error("vote recording exhausted retries",
			"voter_id", voterID, "candidate_id", candidateID, "error", err)
		s.release(ctx, voterID)
		return domain.CastReceipt{}, domain.ErrServiceUnavailable
	}
}

// recordWithRetry retries transient store failures with bounded exponential
// backoff. Deterministic rejections and the duplicate-voter signal are never
// retried.
func (s *castService) recordWithRetry(ctx context.Context, candidateID, voterID uuid.UUID) (int64, error) {
	var count int64

	operation := func() error {
		n, err := s.store.RecordVote(ctx, candidateID, voterID, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrCandidateNotFound) ||
				errors.Is(err, domain.ErrCandidateDeleted) ||
				errors.Is(err, domain.ErrDuplicateVoter) {
				return backoff.Permanent(err)
			}
			s.logger.Warn("transient failure recording vote",
				"voter_id", voterID, "candidate_id", candidateID, "error", err)
			return err
		}
		count = n
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval
	policy.MaxInterval = defaultRetryMaxJitter

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, s.recordRetries), ctx))
	return count, err
}

// replayedReceipt rebuilds the commit snapshot for a vote that an earlier
// attempt already recorded, so replays return the same idempotent success.
func (s *castService) replayedReceipt(ctx context.Context, voterID uuid.UUID) (domain.CastReceipt, error) {
	record, err := s.store.VoteByVoter(ctx, voterID)
	if err != nil {
		return domain.CastReceipt{}, fmt.Errorf("failed to load recorded vote: %w", err)
	}
	if record == nil {
		// The duplicate signal said a record exists; trust it over a racy
		// read and surface the committed outcome without a count.
		return domain.CastReceipt{Replayed: true}, nil
	}

	receipt := domain.CastReceipt{CandidateID: record.CandidateID, Replayed: true}
	if candidate, err := s.candidates.GetByID(ctx, record.CandidateID); err == nil {
		receipt.VoteCount = candidate.VoteCount
	}
	return receipt, nil
}

func (s *castService) release(ctx context.Context, voterID uuid.UUID) {
	if err := s.ledger.Release(ctx, voterID); err != nil {
		// The voter is left claimed with no recorded vote; reconciliation
		// will surface them for manual resolution.
		s.logger.Error("failed to release voter claim", "voter_id", voterID, "error", err)
	}
}
