package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

func registerAlice(t *testing.T, svc *AuthService) *ports.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:           "alice@example.com",
		Password:        "ValidPass123",
		PasswordConfirm: "ValidPass123",
		FirstName:       "Alice",
		LastName:        "Smith",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return res
}

func TestAuthService_Register_IssuesTokens(t *testing.T) {
	svc, _, issuer, _ := newTestAuthService(t)

	res := registerAlice(t, svc)
	if res.Account == nil || res.Account.Email != "alice@example.com" {
		t.Fatalf("unexpected account: %+v", res.Account)
	}
	id, err := issuer.VerifyAccess(res.Tokens.Access)
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if id.AccountID != res.Account.ID {
		t.Fatalf("expected subject %s, got %s", res.Account.ID, id.AccountID)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:           "ALICE@example.com",
		Password:        "ValidPass123",
		PasswordConfirm: "ValidPass123",
	})
	if !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAuthService_Login_RecordsLastLogin(t *testing.T) {
	svc, store, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "ValidPass123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Tokens.Access == "" || res.Tokens.Refresh == "" {
		t.Fatalf("expected both tokens, got %+v", res.Tokens)
	}

	stored, _ := store.FindByID(context.Background(), res.Account.ID)
	if stored.LastLogin == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "nope"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	res := registerAlice(t, svc)
	ctx := context.Background()

	account, err := svc.Profile(ctx, res.Account.ID)
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if account.FirstName != "Alice" {
		t.Fatalf("unexpected profile: %+v", account)
	}

	if _, err := svc.Profile(ctx, "acc-missing"); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid for vanished account, got %v", err)
	}

	if _, err := svc.SetActive(ctx, res.Account.ID, false); err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if _, err := svc.Profile(ctx, res.Account.ID); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthService_UpdateProfile_Partial(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	res := registerAlice(t, svc)

	updated, err := svc.UpdateProfile(context.Background(), res.Account.ID, ports.ProfileInput{FirstName: strPtr("Updated")})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.FirstName != "Updated" || updated.LastName != "Smith" || updated.Email != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", updated)
	}
	if !updated.UpdatedAt.After(res.Account.UpdatedAt) {
		t.Fatalf("expected updated_at to advance")
	}
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	svc, _, _, revs := newTestAuthService(t)
	res := registerAlice(t, svc)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, ""); !errors.Is(err, domain.ErrFieldRequired) {
		t.Fatalf("expected ErrFieldRequired, got %v", err)
	}

	access, err := svc.Refresh(ctx, res.Tokens.Refresh)
	if err != nil || access == "" {
		t.Fatalf("Refresh failed: %q, %v", access, err)
	}

	if err := svc.Logout(ctx, res.Account.ID, res.Tokens.Refresh); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(revs.revoked) != 1 {
		t.Fatalf("expected refresh token to be revoked")
	}
	if _, err := svc.Refresh(ctx, res.Tokens.Refresh); !errors.Is(err, domain.ErrAuthInvalid) {
		t.Fatalf("expected ErrAuthInvalid after logout, got %v", err)
	}
}

func TestAuthService_Provision(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	admin, err := svc.Provision(ctx, ports.ProvisionInput{Email: "admin@example.com", Password: "AdminPass123", Privileged: true})
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if !admin.IsStaff || !admin.IsSuperuser {
		t.Fatalf("expected privileged account, got %+v", admin)
	}

	regular, err := svc.Provision(ctx, ports.ProvisionInput{Email: "user@example.com", Password: "UserPass123"})
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if regular.IsStaff {
		t.Fatalf("expected regular account")
	}

	if _, err := svc.Provision(ctx, ports.ProvisionInput{Email: "bad", Password: "weak"}); !errors.Is(err, domain.ErrInvalidEmail) || !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}

func TestAuthService_SetActive_BlocksLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	res := registerAlice(t, svc)
	ctx := context.Background()

	if _, err := svc.SetActive(ctx, res.Account.ID, false); err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if _, err := svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "ValidPass123"}); !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}

	if _, err := svc.SetActive(ctx, "acc-missing", true); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAuthService_Refresh_RejectsDeactivatedAccount(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	res := registerAlice(t, svc)
	ctx := context.Background()

	if _, err := svc.SetActive(ctx, res.Account.ID, false); err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}

	access, err := svc.Refresh(ctx, res.Tokens.Refresh)
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
	if access != "" {
		t.Fatalf("no token may be issued for a deactivated account, got %q", access)
	}
}

func TestAuthService_Refresh_TamperedToken(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	res := registerAlice(t, svc)

	access, err := svc.Refresh(context.Background(), flipSignatureByte(res.Tokens.Refresh))
	if !errors.Is(err, domain.ErrAuthInvalid) || access != "" {
		t.Fatalf("expected ErrAuthInvalid and no token, got %q, %v", access, err)
	}
}

func TestAuthService_Refresh_UsesCurrentStaffFlag(t *testing.T) {
	svc, store, issuer, _ := newTestAuthService(t)
	ctx := context.Background()

	account, err := store.CreatePrivileged(ctx, "root@example.com", "RootPass123", domain.ProfileFields{})
	if err != nil {
		t.Fatalf("CreatePrivileged returned error: %v", err)
	}
	pair, _ := issuer.Issue(account)

	demoted := *account
	demoted.IsStaff = false
	if _, err := store.repo.Update(ctx, &demoted); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	access, err := svc.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	id, _ := issuer.VerifyAccess(access)
	if id.Staff {
		t.Fatalf("refreshed access token must not keep a revoked staff flag")
	}
}

type failingRecorder struct{ calls int }

func (r *failingRecorder) RecordLogin(context.Context, *domain.Account, time.Time) error {
	r.calls++
	return errors.New("queue full")
}

func TestAuthService_Login_RecorderFailureDoesNotFailLogin(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	registerAlice(t, svc)

	rec := &failingRecorder{}
	svc.SetLoginRecorder(rec)

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "alice@example.com", Password: "ValidPass123"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected the custom recorder to be used once, got %d", rec.calls)
	}
}
