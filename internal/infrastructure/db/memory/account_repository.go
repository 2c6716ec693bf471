// Package memory holds process-local implementations of the storage ports,
// used by the "memory" store driver and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskflow/auth-service/internal/core/domain"
)

// AccountRepository keeps accounts in maps guarded by one lock, so the
// email uniqueness check and the write happen atomically.
type AccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *AccountRepository) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[account.Email]; taken {
		return nil, domain.ErrDuplicateAccount
	}

	stored := cloneAccount(account)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID
	return cloneAccount(stored), nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(r.byID[id]), nil
}

func (r *AccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[account.ID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if owner, taken := r.byEmail[account.Email]; taken && owner != account.ID {
		return nil, domain.ErrDuplicateAccount
	}

	if current.Email != account.Email {
		delete(r.byEmail, current.Email)
		r.byEmail[account.Email] = account.ID
	}
	stored := cloneAccount(account)
	stored.PasswordHash = current.PasswordHash
	stored.CreatedAt = current.CreatedAt
	r.byID[account.ID] = stored
	return cloneAccount(stored), nil
}

func (r *AccountRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LastLogin = &at
	return nil
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	if a.LastLogin != nil {
		t := *a.LastLogin
		c.LastLogin = &t
	}
	return &c
}
