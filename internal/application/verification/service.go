package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/email-otp-api/internal/domain"
	"github.com/email-otp-api/internal/pkg/id"
)

// Mailer delivers the passcode. Delivery is load-bearing for issuance:
// if the mail cannot be sent there is nothing worth persisting.
type Mailer interface {
	SendEmail(to, subject, textBody, htmlBody string) error
}

// IdentityProvider mirrors the verified flag into the external system
// of record. Best-effort only.
type IdentityProvider interface {
	SetEmailVerified(ctx context.Context, accountID string, verified bool) error
}

type Service interface {
	IssueOTP(ctx context.Context, req domain.IssueOTPRequest) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.VerifiedUser, error)
}

type ServiceDeps struct {
	Users    UserStore
	Mailer   Mailer
	Identity IdentityProvider
	OTPTTL   time.Duration
}

type service struct {
	users    UserStore
	resolver *Resolver
	mailer   Mailer
	identity IdentityProvider
	otpTTL   time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.OTPTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		users:    deps.Users,
		resolver: NewResolver(deps.Users),
		mailer:   deps.Mailer,
		identity: deps.Identity,
		otpTTL:   ttl,
	}
}

// IssueOTP emails the caller-supplied code, then records it with its
// expiry on the resolved user record. The email goes out first: a code
// the user never receives must not end up pending in the store.
func (s *service) IssueOTP(ctx context.Context, req domain.IssueOTPRequest) error {
	minutes := int(s.otpTTL.Minutes())
	subject := "Your verification code"
	text := fmt.Sprintf("Your verification code is: %s\r\n\r\nIt expires in %d minutes.", req.OTP, minutes)
	html := fmt.Sprintf("<p>Your verification code is: <b>%s</b></p><p>It expires in %d minutes.</p>", req.OTP, minutes)

	if err := s.mailer.SendEmail(req.Email, subject, text, html); err != nil {
		return fmt.Errorf("send verification email: %w", domain.ErrDelivery)
	}

	u, err := s.resolver.Resolve(ctx, req.AccountID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The code went out but there is no record to pin it to. A
			// later verify fails with user-not-found, which is the
			// correct observable outcome for an account missing from
			// the store. Logged with a reference so operators can
			// follow up.
			slog.Warn("otp issued for unresolvable account",
				"ref", id.New(), "email", req.Email, "account_id", req.AccountID)
			return nil
		}
		return fmt.Errorf("resolve user: %w", domain.ErrPersistence)
	}

	sets := map[string]interface{}{
		"otp":            req.OTP,
		"otp_expires_at": time.Now().Add(s.otpTTL).Unix(),
	}
	if err := s.users.Merge(ctx, u.UserID, sets); err != nil {
		// The email is already gone; this partial failure is reported
		// to the caller, not rolled back.
		return fmt.Errorf("persist pending code: %w", domain.ErrPersistence)
	}
	return nil
}

// VerifyOTP checks a submitted code against the stored pair, consumes
// it, and promotes the account to verified.
func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.VerifiedUser, error) {
	u, err := s.resolver.Resolve(ctx, req.AccountID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve user: %w", domain.ErrPersistence)
	}

	if u.OTP == nil || *u.OTP == "" {
		return nil, fmt.Errorf("no verification code is pending for this account: %w", domain.ErrNoPendingOTP)
	}
	if u.OTPExpiresAt == nil {
		// The issuer always writes the pair together; a lone code means
		// the record was tampered with or corrupted.
		return nil, fmt.Errorf("pending code has no expiry: %w", domain.ErrNoExpiry)
	}
	if time.Now().After(time.Unix(*u.OTPExpiresAt, 0)) {
		return nil, fmt.Errorf("verification code has expired: %w", domain.ErrOTPExpired)
	}
	// Exact, case-sensitive match. No trimming or normalization.
	if *u.OTP != req.OTP {
		return nil, fmt.Errorf("verification code does not match: %w", domain.ErrOTPInvalid)
	}

	now := time.Now().UTC()
	sets := map[string]interface{}{
		"email_verified": true,
		"verified_at":    now.Format(time.RFC3339),
	}
	// One update: the verified flag and the cleared pair commit
	// together, so a consumed code cannot be replayed.
	if err := s.users.UpdateAndRemove(ctx, u.UserID, sets, []string{"otp", "otp_expires_at"}); err != nil {
		return nil, fmt.Errorf("promote account to verified: %w", domain.ErrPersistence)
	}

	if s.identity != nil {
		if err := s.identity.SetEmailVerified(ctx, req.AccountID, true); err != nil {
			// The record update above already committed and is the
			// source of truth; the mirror is eventually consistent at
			// best.
			slog.Warn("identity provider email_verified mirror failed",
				"account_id", req.AccountID, "err", err)
		}
	}

	return &domain.VerifiedUser{Email: req.Email, AccountID: req.AccountID}, nil
}
