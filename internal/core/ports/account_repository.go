package ports

import (
	"context"
	"time"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// AccountRepository is the persistence contract for accounts. Implementations
// must enforce email uniqueness themselves (unique index / constraint /
// locked map) and report violations as domain.ErrDuplicateAccount.
type AccountRepository interface {
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
