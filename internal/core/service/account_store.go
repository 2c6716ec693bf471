package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"

	defaultNameMaxLength = 30
)

// AccountStoreConfig is the process-wide authentication setup, fixed at startup.
// Email is always the identity key; RequiredFields lists the profile fields
// that must be non-empty on creation.
type AccountStoreConfig struct {
	RequiredFields []string
	NameMaxLength  int
	HashCost       int
}

// AccountStore implements ports.AccountStore on top of a repository that
// enforces email uniqueness.
type AccountStore struct {
	repo ports.AccountRepository
	cfg  AccountStoreConfig
	now  func() time.Time
	log  zerolog.Logger
}

func NewAccountStore(repo ports.AccountRepository, cfg AccountStoreConfig, log zerolog.Logger) (*AccountStore, error) {
	if cfg.NameMaxLength <= 0 {
		cfg.NameMaxLength = defaultNameMaxLength
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	if cfg.HashCost < bcrypt.MinCost || cfg.HashCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("account store: hash cost %d out of range", cfg.HashCost)
	}
	for _, f := range cfg.RequiredFields {
		if f != FieldFirstName && f != FieldLastName {
			return nil, fmt.Errorf("account store: unknown required field %q", f)
		}
	}
	return &AccountStore{repo: repo, cfg: cfg, now: time.Now, log: log}, nil
}

// Create persists a regular account.
func (s *AccountStore) Create(ctx context.Context, email, rawPassword string, profile domain.ProfileFields) (*domain.Account, error) {
	return s.create(ctx, email, rawPassword, profile, false)
}

// CreatePrivileged persists an active staff + superuser account.
func (s *AccountStore) CreatePrivileged(ctx context.Context, email, rawPassword string, profile domain.ProfileFields) (*domain.Account, error) {
	return s.create(ctx, email, rawPassword, profile, true)
}

func (s *AccountStore) create(ctx context.Context, email, rawPassword string, profile domain.ProfileFields, privileged bool) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)

	var verrs domain.ValidationErrors
	if email == "" {
		verrs = append(verrs, domain.NewFieldError("email", domain.ErrEmailRequired, "This field is required."))
	}
	if rawPassword == "" {
		verrs = append(verrs, domain.NewFieldError("password", domain.ErrPasswordRequired, "This field is required."))
	}

	first := s.truncateName(profile.FirstName)
	last := s.truncateName(profile.LastName)
	for _, f := range s.cfg.RequiredFields {
		if (f == FieldFirstName && first == "") || (f == FieldLastName && last == "") {
			verrs = append(verrs, domain.NewFieldError(f, domain.ErrFieldRequired, "This field is required."))
		}
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), s.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := domain.NextTimestamp(s.now(), time.Time{})
	account := &domain.Account{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    first,
		LastName:     last,
		IsActive:     true,
		IsStaff:      privileged,
		IsSuperuser:  privileged,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, duplicateEmail()
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info().
		Str("account_id", created.ID).
		Bool("privileged", privileged).
		Msg("account created")

	return created, nil
}

// FindByEmail looks an account up by its normalized email.
func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if id == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Update applies the non-nil fields of changes. An email change is checked
// against other accounts here and again by the repository's unique constraint.
func (s *AccountStore) Update(ctx context.Context, account *domain.Account, changes domain.AccountChanges) (*domain.Account, error) {
	if changes.Empty() {
		return account, nil
	}

	next := *account
	if changes.Email != nil {
		email := domain.NormalizeEmail(*changes.Email)
		if email == "" {
			return nil, domain.NewFieldError("email", domain.ErrEmailRequired, "This field is required.")
		}
		if email != account.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != account.ID:
				return nil, duplicateEmail()
			case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
				return nil, fmt.Errorf("update account: %w", err)
			}
		}
		next.Email = email
	}
	if changes.FirstName != nil {
		next.FirstName = s.truncateName(*changes.FirstName)
	}
	if changes.LastName != nil {
		next.LastName = s.truncateName(*changes.LastName)
	}
	if changes.IsActive != nil {
		next.IsActive = *changes.IsActive
	}
	next.UpdatedAt = domain.NextTimestamp(s.now(), account.UpdatedAt)

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, duplicateEmail()
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

// RecordLogin stamps the last-login time. It does not move updated_at.
func (s *AccountStore) RecordLogin(ctx context.Context, account *domain.Account, at time.Time) error {
	at = at.UTC().Truncate(time.Millisecond)
	if err := s.repo.TouchLastLogin(ctx, account.ID, at); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	account.LastLogin = &at
	return nil
}

func (s *AccountStore) truncateName(name string) string {
	name = strings.TrimSpace(name)
	r := []rune(name)
	if len(r) > s.cfg.NameMaxLength {
		return string(r[:s.cfg.NameMaxLength])
	}
	return name
}

func duplicateEmail() *domain.FieldError {
	return domain.NewFieldError("email", domain.ErrDuplicateAccount, "A user with that email already exists.")
}
