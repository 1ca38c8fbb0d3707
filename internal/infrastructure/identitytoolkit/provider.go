package identitytoolkit

import (
	"context"
	"fmt"

	"github.com/email-otp-api/internal/config"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// Provider mirrors account flags into the external identity provider.
// The user record in DynamoDB stays the source of truth; callers treat
// this mirror as best-effort.
type Provider interface {
	SetEmailVerified(ctx context.Context, accountID string, verified bool) error
}

type provider struct {
	svc *identitytoolkit.Service
}

func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	if cfg.IdentityToolkitAPIKey == "" {
		return nil, fmt.Errorf("IDENTITY_TOOLKIT_API_KEY not set")
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(cfg.IdentityToolkitAPIKey))
	if err != nil {
		return nil, err
	}
	return &provider{svc: svc}, nil
}

// SetEmailVerified flips the emailVerified flag on the identity-provider
// account keyed by local id.
func (p *provider) SetEmailVerified(ctx context.Context, accountID string, verified bool) error {
	req := &identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		LocalId:       accountID,
		EmailVerified: verified,
	}
	if _, err := p.svc.Relyingparty.SetAccountInfo(req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("identitytoolkit setAccountInfo: %w", err)
	}
	return nil
}
