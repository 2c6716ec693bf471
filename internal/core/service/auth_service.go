package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

// AuthService wires validators, the account store and the session issuer
// into the request-level use cases.
type AuthService struct {
	store        ports.AccountStore
	sessions     ports.SessionIssuer
	logins       ports.LoginRecorder
	registration *RegistrationValidator
	login        *LoginValidator
	profile      *ProfileValidator
	now          func() time.Time
	log          zerolog.Logger
}

func NewAuthService(store ports.AccountStore, sessions ports.SessionIssuer, login *LoginValidator, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		sessions:     sessions,
		logins:       store,
		registration: NewRegistrationValidator(store),
		login:        login,
		profile:      NewProfileValidator(store),
		now:          time.Now,
		log:          log,
	}
}

// SetLoginRecorder replaces the synchronous last-login write, e.g. with a
// queue.Dispatcher.
func (s *AuthService) SetLoginRecorder(r ports.LoginRecorder) {
	if r != nil {
		s.logins = r
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	account, err := s.registration.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	tokens, err := s.sessions.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("account registered")
	return &ports.AuthResult{Account: account, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	account, err := s.login.Authenticate(ctx, in)
	if err != nil {
		if domain.IsAuthError(err) {
			s.log.Debug().Err(err).Msg("login rejected")
		}
		return nil, err
	}

	tokens, err := s.sessions.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.logins.RecordLogin(ctx, account, s.now()); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to record last login")
	}

	s.log.Info().Str("account_id", account.ID).Msg("account logged in")
	return &ports.AuthResult{Account: account, Tokens: tokens}, nil
}

// Profile loads the account behind a verified access token. A token for an
// account that no longer exists or was deactivated is treated as invalid.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAuthInvalid
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	if !account.Enabled() {
		return nil, domain.ErrAccountInactive
	}
	return account, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, accountID string, in ports.ProfileInput) (*domain.Account, error) {
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	changes, err := s.profile.Validate(ctx, account, in)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, account, changes)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", updated.ID).Msg("profile updated")
	return updated, nil
}

// Refresh mints a new access token for the owner of refreshToken. The owner
// must still exist and be active; the new token carries the current staff flag.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.NewFieldError("refresh", domain.ErrFieldRequired, "This field is required.")
	}

	id, err := s.sessions.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	account, err := s.Profile(ctx, id.AccountID)
	if err != nil {
		return "", err
	}

	access, err := s.sessions.IssueAccess(account)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return access, nil
}

func (s *AuthService) Logout(ctx context.Context, accountID, refreshToken string) error {
	if refreshToken == "" {
		return domain.NewFieldError("refresh", domain.ErrFieldRequired, "This field is required.")
	}
	return s.sessions.Revoke(ctx, accountID, refreshToken)
}

// Provision creates an account on behalf of an administrator. The password
// policy still applies; no confirmation is needed.
func (s *AuthService) Provision(ctx context.Context, in ports.ProvisionInput) (*domain.Account, error) {
	return Provision(ctx, s.store, in)
}

// Provision validates in and creates the account through store. It backs both
// the admin endpoint and the createsuperuser command.
func Provision(ctx context.Context, store ports.AccountStore, in ports.ProvisionInput) (*domain.Account, error) {
	var verrs domain.ValidationErrors
	if err := ValidateEmail(in.Email); err != nil {
		verrs = appendFieldError(verrs, err)
	}
	if err := CheckPasswordStrength(in.Password); err != nil {
		verrs = appendFieldError(verrs, err)
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	profile := domain.ProfileFields{FirstName: in.FirstName, LastName: in.LastName}
	if in.Privileged {
		return store.CreatePrivileged(ctx, in.Email, in.Password, profile)
	}
	return store.Create(ctx, in.Email, in.Password, profile)
}

// SetActive flips the active flag. Accounts are deactivated, never deleted.
func (s *AuthService) SetActive(ctx context.Context, accountID string, active bool) (*domain.Account, error) {
	account, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, account, domain.AccountChanges{IsActive: &active})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", updated.ID).Bool("active", active).Msg("account active flag changed")
	return updated, nil
}
