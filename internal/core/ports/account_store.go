package ports

import (
	"context"
	"time"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// AccountStore owns normalization, hashing and uniqueness of accounts.
type AccountStore interface {
	Create(ctx context.Context, email, rawPassword string, profile domain.ProfileFields) (*domain.Account, error)
	CreatePrivileged(ctx context.Context, email, rawPassword string, profile domain.ProfileFields) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account, changes domain.AccountChanges) (*domain.Account, error)
	RecordLogin(ctx context.Context, account *domain.Account, at time.Time) error
}

// LoginRecorder stamps a successful login on an account. AccountStore
// satisfies it directly; the queue package offers an asynchronous one.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, account *domain.Account, at time.Time) error
}
