package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskflow/auth-service/internal/core/domain"
	"github.com/taskflow/auth-service/internal/core/ports"
)

// MinSecretLength is the shortest HS256 signing secret accepted.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("session issuer: signing secret must be at least 32 bytes")

// SessionConfig configures token lifetimes and signing.
type SessionConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// sessionClaims is the payload of both token types. Refresh tokens carry the
// same identity fields so a new access token can be minted without a store read.
type sessionClaims struct {
	Email     string           `json:"email"`
	Staff     bool             `json:"staff,omitempty"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// SessionIssuer implements ports.SessionIssuer with HS256 JWTs.
type SessionIssuer struct {
	secret      []byte
	issuer      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	revocations ports.TokenRevocations
	now         func() time.Time
	log         zerolog.Logger
}

func NewSessionIssuer(cfg SessionConfig, revocations ports.TokenRevocations, log zerolog.Logger) (*SessionIssuer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, fmt.Errorf("session issuer: access ttl %s must be shorter than refresh ttl %s", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if revocations == nil {
		return nil, errors.New("session issuer: revocation store is required")
	}
	return &SessionIssuer{
		secret:      []byte(cfg.Secret),
		issuer:      cfg.Issuer,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		revocations: revocations,
		now:         time.Now,
		log:         log,
	}, nil
}

// AccessTTL reports the configured access token lifetime.
func (s *SessionIssuer) AccessTTL() time.Duration { return s.accessTTL }

// Issue mints an access/refresh pair for account.
func (s *SessionIssuer) Issue(account *domain.Account) (*domain.TokenPair, error) {
	now := s.now()
	access, err := s.sign(account.ID, account.Email, account.IsStaff, domain.TokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(account.ID, account.Email, account.IsStaff, domain.TokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess checks signature then expiry. Refresh tokens are rejected.
func (s *SessionIssuer) VerifyAccess(token string) (*domain.Identity, error) {
	claims, err := s.parse(token, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return claims.identity(), nil
}

// VerifyRefresh checks a refresh token and the denylist and returns the
// identity it was issued to.
func (s *SessionIssuer) VerifyRefresh(ctx context.Context, refreshToken string) (*domain.Identity, error) {
	claims, err := s.parse(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	if revoked {
		return nil, domain.ErrAuthInvalid
	}
	return claims.identity(), nil
}

// IssueAccess mints a single access token for account.
func (s *SessionIssuer) IssueAccess(account *domain.Account) (string, error) {
	return s.sign(account.ID, account.Email, account.IsStaff, domain.TokenTypeAccess, s.now(), s.accessTTL)
}

// Refresh exchanges a live, unrevoked refresh token for a new access token
// carrying the refresh token's claims. The refresh token itself is not rotated.
func (s *SessionIssuer) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, err := s.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.sign(id.AccountID, id.Email, id.Staff, domain.TokenTypeAccess, s.now(), s.accessTTL)
}

// Revoke denylists a refresh token owned by accountID until it would have
// expired anyway. Already-expired tokens need no entry.
func (s *SessionIssuer) Revoke(ctx context.Context, accountID, refreshToken string) error {
	claims, err := s.parse(refreshToken, domain.TokenTypeRefresh)
	if errors.Is(err, domain.ErrAuthExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	if claims.Subject != accountID {
		return domain.ErrAuthInvalid
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}

	s.log.Info().Str("account_id", accountID).Str("jti", claims.ID).Msg("refresh token revoked")
	return nil
}

func (s *SessionIssuer) sign(accountID, email string, staff bool, typ domain.TokenType, now time.Time, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		Email:     email,
		Staff:     staff,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *SessionIssuer) parse(token string, want domain.TokenType) (*sessionClaims, error) {
	if token == "" {
		return nil, domain.ErrAuthInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrAuthExpired
		}
		return nil, domain.ErrAuthInvalid
	}

	if claims.TokenType != want || claims.Subject == "" || claims.ID == "" {
		return nil, domain.ErrAuthInvalid
	}
	return claims, nil
}

func (c *sessionClaims) identity() *domain.Identity {
	id := &domain.Identity{
		AccountID: c.Subject,
		Email:     c.Email,
		Staff:     c.Staff,
		TokenID:   c.ID,
		Type:      c.TokenType,
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
