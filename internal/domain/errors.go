package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
	ErrAmbiguousWrite    = errors.New("write outcome unknown")
	ErrProviderFailure   = errors.New("provider failure")
)
