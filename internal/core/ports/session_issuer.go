package ports

import (
	"context"
	"time"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// SessionIssuer mints and verifies signed session tokens.
type SessionIssuer interface {
	Issue(account *domain.Account) (*domain.TokenPair, error)
	VerifyAccess(token string) (*domain.Identity, error)
	VerifyRefresh(ctx context.Context, refreshToken string) (*domain.Identity, error)
	IssueAccess(account *domain.Account) (string, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, accountID, refreshToken string) error
}

// TokenRevocations is the refresh-token denylist, keyed by token id.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
