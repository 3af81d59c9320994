package service

import "errors"

var (
	// ErrInvalidAmount when an amount is missing, NaN, zero or has the wrong sign for its kind
	ErrInvalidAmount = errors.New("invalid contribution amount")
	// ErrInvalidKind when a contribution kind is outside the closed kind list
	ErrInvalidKind = errors.New("invalid contribution kind")
	// ErrUnknownLockPeriod when a lock period key has no configured bonus rate
	ErrUnknownLockPeriod = errors.New("unknown lock period")
	// ErrUnknownTier when a partner tier has no registry entry
	ErrUnknownTier = errors.New("unknown partner tier")
	// ErrInsufficientBalance when an operation would push remaining contribution below zero
	ErrInsufficientBalance = errors.New("insufficient remaining contribution")
	// ErrInvalidScoreInput when a project score factor is out of its allowed range
	ErrInvalidScoreInput = errors.New("invalid project score input")
	// ErrAlreadyReferred when a referee already has a referrer; the first one is permanent
	ErrAlreadyReferred = errors.New("user already has a referrer")
	// ErrSelfReferral when a user tries to refer themselves
	ErrSelfReferral = errors.New("self referral is not allowed")
	// ErrCyclicReferral when a link would introduce a cycle into the referral forest
	ErrCyclicReferral = errors.New("referral link would create a cycle")
)
