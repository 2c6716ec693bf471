package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskflow/auth-service/internal/core/domain"
)

const accountColumns = `id, email, password_hash, first_name, last_name, is_active, is_staff, is_superuser, last_login, created_at, updated_at`

// AccountRepository implements ports.AccountRepository on PostgreSQL. Email
// uniqueness comes from the accounts_email_key constraint.
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Insert(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	created := *account
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		created.ID,
		created.Email,
		created.PasswordHash,
		created.FirstName,
		created.LastName,
		created.IsActive,
		created.IsStaff,
		created.IsSuperuser,
		created.LastLogin,
		created.CreatedAt,
		created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.scanAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.scanAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// Update writes the mutable columns. The password hash and created_at are
// never changed here.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET email = $1, first_name = $2, last_name = $3, is_active = $4, updated_at = $5
		WHERE id = $6`

	tag, err := r.db.Exec(ctx, query,
		account.Email,
		account.FirstName,
		account.LastName,
		account.IsActive,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAccountNotFound
	}

	updated := *account
	return &updated, nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE accounts SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FirstName,
		&a.LastName,
		&a.IsActive,
		&a.IsStaff,
		&a.IsSuperuser,
		&a.LastLogin,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "23505")
}
