// Package auth implements the token issuer: signed, time-limited access
// tokens plus helpers for opaque refresh-token hashing. The issuer owns no
// persistent state; it is a pure function of the signing key and the clock.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bluballz/chat-auth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed claim set carried by an access token: the standard
// registered claims (subject=userID, iat, exp) plus the user's email and
// display name.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// JWT issues and parses HS256-signed access tokens. The signing key is
// process-wide, loaded once at startup, and never rotated at runtime.
type JWT struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWT(secret []byte, accessTTL, refreshTTL time.Duration) *JWT {
	return &JWT{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess builds a signed claim set with issuedAt=now and
// expiresAt=now+accessTTL and returns the compact token together with the
// expiry as unix seconds.
func (j *JWT) IssueAccess(userID, email, displayName string) (string, int64, error) {
	now := j.now()
	expiresAt := now.Add(j.accessTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:       email,
		DisplayName: displayName,
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt.Unix(), nil
}

// ParseAccess verifies signature and expiry and returns the claims. Any
// failure (bad signature, expired, malformed) yields an error; callers treat
// all of them uniformly as "not valid".
func (j *JWT) ParseAccess(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// RefreshTTL returns the configured refresh-token lifetime, used by the
// orchestrator to compute the stored expiry.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// HashToken returns the hex-encoded SHA-256 of a raw refresh-token value.
// Refresh tokens are persisted and looked up only by this hash, so the store
// never compares raw values.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
