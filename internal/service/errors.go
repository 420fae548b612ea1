package service

import "errors"

// Sentinel errors surfaced to the HTTP layer, mapped to status codes
// there with errors.Is.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrSessionNotFound     = errors.New("focus session not found")
	ErrAlreadyCompleted    = errors.New("already completed")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrSelfReferral        = errors.New("cannot refer yourself")
	ErrDuplicateReferral   = errors.New("user already has a referrer")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownProduct      = errors.New("unknown product")
	ErrUnknownPackage      = errors.New("unknown subscription package")
	ErrPaymentNotFound     = errors.New("payment not found")
)
