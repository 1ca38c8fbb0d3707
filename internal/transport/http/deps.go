package http

import (
	"github.com/email-otp-api/internal/application/verification"
)

// Deps holds all infrastructure dependencies for the router.
// Identity may be nil when the identity provider is not configured;
// verification then skips the best-effort mirror.
type Deps struct {
	UserStore verification.UserStore
	Mailer    verification.Mailer
	Identity  verification.IdentityProvider
}
