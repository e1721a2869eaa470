package domain

import "errors"

var (
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrCandidateDeleted   = errors.New("candidate has been removed from the ballot")
	ErrAlreadyVoted       = errors.New("voter has already voted")
	ErrDuplicateVoter     = errors.New("a vote is already recorded for this voter")
	ErrNotClaimed         = errors.New("voter is not claimed")
	ErrServiceUnavailable = errors.New("voting is temporarily unavailable")
	ErrInvalidCandidateID = errors.New("invalid candidate id")
)
