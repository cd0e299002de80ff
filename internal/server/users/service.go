// Package users contains the credential store and the auth orchestrator:
// registration, login, refresh-token rotation, and stateless access-token
// validation.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bluballz/chat-auth/internal/common"
	"github.com/bluballz/chat-auth/internal/server/auth"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinPasswordLength is enforced before hashing is attempted.
const MinPasswordLength = 8

// refreshTokenBytes is the entropy of a raw refresh token; the hex-encoded
// value returned to the caller is twice as long.
const refreshTokenBytes = 32

var validate = validator.New()

// TokenPair bundles a freshly issued access/refresh pair with both expiry
// timestamps as unix seconds. RefreshToken carries the raw value; this is
// the only place it is ever visible outside the issuance routine.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  int64
	RefreshExpiresAt int64
}

// AuthResult is the outcome of Register and Login: the identity fields plus
// a new token pair.
type AuthResult struct {
	UserID      string
	Email       string
	DisplayName string
	Tokens      *TokenPair
}

// TokenIdentity is the identity extracted from a valid access token.
type TokenIdentity struct {
	UserID string
	Email  string
}

// Service sequences the credential store, the password hasher, and the token
// issuer for the four auth operations, translating outcomes into the
// sentinel errors of internal/common. Randomness, IDs, and the clock are
// injected so tests can run deterministically.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	issuer *auth.JWT

	newID           func() string
	newRefreshToken func() (string, error)
	now             func() time.Time
}

func NewService(repo Repository, hasher PasswordHasher, issuer *auth.JWT) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		newID:  uuid.NewString,
		newRefreshToken: func() (string, error) {
			return common.MakeRandHexString(refreshTokenBytes)
		},
		now: time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and issues its first token pair. The unique
// constraint on email is the safety net for concurrent registrations: a
// duplicate insert surfaces as common.ErrAlreadyExists regardless of the
// preceding existence check.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {

	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrInvalidArgument)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password too short", common.ErrInvalidArgument)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrAlreadyExists
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		ID:           s.newID(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, DisplayName: user.DisplayName, Tokens: tokens}, nil
}

// Login verifies the password for an existing user and issues a new token
// pair. A missing user yields common.ErrNotFound; a password mismatch yields
// common.ErrPermissionDenied.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {

	email = normalizeEmail(email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: bad credentials", common.ErrPermissionDenied)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{UserID: user.ID, Email: user.Email, DisplayName: user.DisplayName, Tokens: tokens}, nil
}

// Refresh exchanges a valid raw refresh token for a new token pair, rotating
// the stored hash in the process. An unknown or expired token yields
// common.ErrPermissionDenied; the same status covers both cases.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: missing refresh token", common.ErrInvalidArgument)
	}

	user, err := s.repo.GetByRefreshTokenHash(ctx, auth.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", common.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if user.RefreshExpiresAt != nil && user.RefreshExpiresAt.Before(s.now()) {
		return nil, fmt.Errorf("%w: refresh token expired", common.ErrPermissionDenied)
	}

	return s.issueTokens(ctx, user)
}

// ValidateToken performs stateless verification of an access token: no
// store lookups, no side effects, and it never returns an error. The second
// return value reports whether the token is currently valid.
func (s *Service) ValidateToken(accessToken string) (*TokenIdentity, bool) {
	claims, err := s.issuer.ParseAccess(accessToken)
	if err != nil {
		return nil, false
	}
	return &TokenIdentity{UserID: claims.Subject, Email: claims.Email}, true
}

// issueTokens is the shared issuance routine used by Register, Login, and
// Refresh: mint an access token, generate a fresh random refresh value,
// store its hash and expiry (overwriting the previous one), and hand the raw
// value back exactly once.
func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {

	accessToken, accessExpiresAt, err := s.issuer.IssueAccess(user.ID, user.Email, user.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	refreshToken, err := s.newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	refreshExpiresAt := s.now().Add(s.issuer.RefreshTTL())

	if err := s.repo.UpdateRefreshToken(ctx, user.ID, auth.HashToken(refreshToken), refreshExpiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt.Unix(),
	}, nil
}
