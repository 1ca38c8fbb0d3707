package verification

import (
	"context"
	"errors"
	"fmt"

	"github.com/email-otp-api/internal/domain"
)

// UserStore is the persistence port the verification flow depends on.
type UserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByAccountID(ctx context.Context, accountID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Merge(ctx context.Context, userID string, sets map[string]interface{}) error
	UpdateAndRemove(ctx context.Context, userID string, sets map[string]interface{}, removes []string) error
}

// Resolver maps an identifier bundle (account id and/or email) to the
// single authoritative user record.
//
// Accounts were created through more than one signup path: some carry
// the account identifier as their partition key, older ones carry it as
// a plain account_id attribute. Callers must not need to know which, so
// resolution tries, in order: partition key, account_id attribute,
// email. The first hit wins.
type Resolver struct {
	users UserStore
}

func NewResolver(users UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the single record the identifier bundle points at, or
// a domain.ErrNotFound-wrapped error. Store failures other than
// not-found abort the chain.
func (r *Resolver) Resolve(ctx context.Context, accountID, email string) (*domain.User, error) {
	if accountID != "" {
		u, err := r.users.Get(ctx, accountID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		u, err = r.users.GetByAccountID(ctx, accountID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	if email != "" {
		u, err := r.users.GetByEmail(ctx, email)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}
