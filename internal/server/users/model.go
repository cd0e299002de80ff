package users

import "time"

// User is the durable identity record. Email is stored normalized (trimmed,
// lower-cased) and is unique. PasswordHash is never empty once a user
// exists. RefreshTokenHash holds the SHA-256 of the single currently valid
// refresh token; it is empty until the first login, and rotation overwrites
// it in place. Raw refresh tokens are never persisted.
type User struct {
	ID               string
	Email            string
	DisplayName      string
	PasswordHash     string
	RefreshTokenHash string
	RefreshExpiresAt *time.Time
	CreatedAt        time.Time
}
