package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

// RegistrationValidator turns registration input into a new account.
type RegistrationValidator struct {
	store ports.AccountStore
}

func NewRegistrationValidator(store ports.AccountStore) *RegistrationValidator {
	return &RegistrationValidator{store: store}
}

// Validate runs the registration rules. Email and password problems are
// reported together; the confirmation is only compared once both pass.
func (v *RegistrationValidator) Validate(ctx context.Context, in ports.RegisterInput) error {
	var verrs domain.ValidationErrors

	if err := ValidateEmail(in.Email); err != nil {
		verrs = appendFieldError(verrs, err)
	} else {
		_, err := v.store.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			verrs = append(verrs, duplicateEmail())
		case !errors.Is(err, domain.ErrAccountNotFound):
			return fmt.Errorf("registration lookup: %w", err)
		}
	}

	if err := CheckPasswordStrength(in.Password); err != nil {
		verrs = appendFieldError(verrs, err)
	}
	if len(verrs) > 0 {
		return verrs
	}

	if in.Password != in.PasswordConfirm {
		return domain.ValidationErrors{
			domain.NewFieldError("password_confirm", domain.ErrPasswordMismatch, "Passwords do not match."),
		}
	}
	return nil
}

// Register validates and then creates the account. The store's uniqueness
// guarantee still decides concurrent registrations of the same email.
func (v *RegistrationValidator) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if err := v.Validate(ctx, in); err != nil {
		return nil, err
	}
	return v.store.Create(ctx, in.Email, in.Password, domain.ProfileFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
}

// LoginValidator authenticates email/password pairs.
type LoginValidator struct {
	store     ports.AccountStore
	dummyHash []byte
}

// NewLoginValidator prepares a dummy hash at the given cost so that failed
// lookups spend the same bcrypt time as failed password checks.
func NewLoginValidator(store ports.AccountStore, hashCost int) (*LoginValidator, error) {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), hashCost)
	if err != nil {
		return nil, fmt.Errorf("login validator: %w", err)
	}
	return &LoginValidator{store: store, dummyHash: dummy}, nil
}

// Authenticate returns the account for valid credentials. A malformed email is
// a validation error; unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (v *LoginValidator) Authenticate(ctx context.Context, in ports.LoginInput) (*domain.Account, error) {
	var verrs domain.ValidationErrors
	if err := ValidateEmail(in.Email); err != nil {
		verrs = appendFieldError(verrs, err)
	}
	if in.Password == "" {
		verrs = append(verrs, domain.NewFieldError("password", domain.ErrPasswordRequired, "This field is required."))
	}
	if err := verrs.OrNil(); err != nil {
		return nil, err
	}

	account, err := v.store.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(in.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !account.VerifyPassword(in.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Enabled() {
		return nil, domain.ErrAccountInactive
	}
	return account, nil
}

// ProfileValidator checks partial profile updates.
type ProfileValidator struct {
	store ports.AccountStore
}

func NewProfileValidator(store ports.AccountStore) *ProfileValidator {
	return &ProfileValidator{store: store}
}

// Validate returns the changes to apply to account. Absent fields stay nil.
func (v *ProfileValidator) Validate(ctx context.Context, account *domain.Account, in ports.ProfileInput) (domain.AccountChanges, error) {
	changes := domain.AccountChanges{
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if in.Email == nil {
		return changes, nil
	}

	if err := ValidateEmail(*in.Email); err != nil {
		return domain.AccountChanges{}, appendFieldError(nil, err)
	}
	email := domain.NormalizeEmail(*in.Email)
	if email != account.Email {
		other, err := v.store.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != account.ID:
			return domain.AccountChanges{}, domain.ValidationErrors{duplicateEmail()}
		case err != nil && !errors.Is(err, domain.ErrAccountNotFound):
			return domain.AccountChanges{}, fmt.Errorf("profile lookup: %w", err)
		}
	}
	changes.Email = &email
	return changes, nil
}

func appendFieldError(verrs domain.ValidationErrors, err error) domain.ValidationErrors {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return append(verrs, fe)
	}
	return append(verrs, domain.NewFieldError("non_field_errors", err, err.Error()))
}
