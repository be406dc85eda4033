package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrNotVerified     = errors.New("submission is not verified")
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrReasonRequired  = errors.New("a rejection reason is required")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnavailable     = errors.New("collaborator not configured")
)
