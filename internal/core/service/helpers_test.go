package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/auth-service/internal/core/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, domain.ErrDuplicateAccount
		}
	}
	r.seq++
	copy := cloneAccount(account)
	copy.ID = "acc-" + strconv.Itoa(r.seq)
	r.accounts[copy.ID] = cloneAccount(copy)
	return copy, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	for id, a := range r.accounts {
		if id != account.ID && a.Email == account.Email {
			return nil, domain.ErrDuplicateAccount
		}
	}
	r.accounts[account.ID] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LastLogin = &at
	return nil
}

type stubRevocations struct {
	revoked map[string]time.Duration
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func (s *stubRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.revoked[tokenID] = ttl
	return nil
}

func newTestStore(t *testing.T, cfg AccountStoreConfig) (*AccountStore, *stubAccountRepo) {
	t.Helper()
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.MinCost
	}
	repo := newStubAccountRepo()
	store, err := NewAccountStore(repo, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAccountStore returned error: %v", err)
	}
	return store, repo
}

func newTestIssuer(t *testing.T, revocations *stubRevocations) *SessionIssuer {
	t.Helper()
	issuer, err := NewSessionIssuer(SessionConfig{
		Secret:     testSecret,
		Issuer:     "taskflow-auth",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, revocations, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSessionIssuer returned error: %v", err)
	}
	return issuer
}

func newTestAuthService(t *testing.T) (*AuthService, *AccountStore, *SessionIssuer, *stubRevocations) {
	t.Helper()
	store, _ := newTestStore(t, AccountStoreConfig{})
	revs := newStubRevocations()
	issuer := newTestIssuer(t, revs)
	login, err := NewLoginValidator(store, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewLoginValidator returned error: %v", err)
	}
	return NewAuthService(store, issuer, login, zerolog.Nop()), store, issuer, revs
}

func strPtr(s string) *string { return &s }
