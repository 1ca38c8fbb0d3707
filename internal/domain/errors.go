package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without
// leaking infrastructure details.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrNoPendingOTP = errors.New("no pending verification code")
	ErrNoExpiry     = errors.New("pending code has no expiry")
	ErrOTPExpired   = errors.New("verification code expired")
	ErrOTPInvalid   = errors.New("verification code invalid")
	ErrDelivery     = errors.New("email delivery failed")
	ErrPersistence  = errors.New("persistence failed")
)
