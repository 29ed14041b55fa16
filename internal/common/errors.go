// Package common defines shared constants and sentinel errors used across
// VaultKeeper components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation / account errors.
	ErrorValidation = errors.New("validation error")
	ErrorConflict   = errors.New("already exists")

	// Auth errors.
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrorForbidden    = errors.New("forbidden")
	ErrInvalidToken   = errors.New("invalid token")

	// OTP challenge lifecycle errors.
	ErrOtpInvalid  = errors.New("invalid otp")
	ErrOtpExpired  = errors.New("otp expired")
	ErrOtpRequired = errors.New("otp verification required")

	// Mail collaborator errors.
	ErrDelivery = errors.New("mail delivery failed")
)
