package domain

import "time"

// User is the authoritative account record. It is created by an
// external signup flow; this service only mutates the OTP pair and the
// verification flags.
//
// A record is addressable three ways: by user_id (the partition key),
// by the legacy account_id attribute written by an older signup path,
// or by email. Resolution prefers the partition-key match.
type User struct {
	UserID        string     `json:"id" dynamodbav:"user_id"`
	AccountID     string     `json:"account_id,omitempty" dynamodbav:"account_id"`
	Email         string     `json:"email" dynamodbav:"email"`
	OTP           *string    `json:"-" dynamodbav:"otp"`
	OTPExpiresAt  *int64     `json:"-" dynamodbav:"otp_expires_at"` // Unix seconds, set and cleared together with otp
	EmailVerified bool       `json:"email_verified" dynamodbav:"email_verified"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// IssueOTPRequest asks for a caller-supplied code to be emailed and
// recorded against the account. Code generation policy belongs to the
// caller.
type IssueOTPRequest struct {
	Email     string `json:"email" validate:"required,email"`
	OTP       string `json:"otp" validate:"required"`
	AccountID string `json:"account_id"`
}

// VerifyOTPRequest submits a code for checking against the stored pair.
type VerifyOTPRequest struct {
	Email     string `json:"email" validate:"required,email"`
	OTP       string `json:"otp" validate:"required"`
	AccountID string `json:"account_id" validate:"required"`
}

// VerifiedUser is echoed back to the caller on successful verification.
type VerifiedUser struct {
	Email     string `json:"email"`
	AccountID string `json:"account_id"`
}
