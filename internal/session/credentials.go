package session

import (
	"context"
	"errors"

	"github.com/Shiv-727-nov/E-commerce/internal/domain"
)

// CredentialStore persists the signed-in session across process
// restarts under the fixed keys "token" and "user". Clear removes both
// atomically.
type CredentialStore interface {
	Save(ctx context.Context, session domain.Session) error
	Load(ctx context.Context) (domain.Session, error)
	Clear(ctx context.Context) error
}

var ErrNoCredentials = errors.New("no stored credentials")

const (
	keyToken = "token"
	keyUser  = "user"
)
