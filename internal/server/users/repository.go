package users

import (
	"context"
	"time"
)

// Repository is the credential store contract. Implementations must surface
// a duplicate-email insert as common.ErrAlreadyExists so the service can map
// concurrent registrations correctly; the storage-level unique constraint is
// the source of truth, not the preceding existence check.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	UpdateRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error
}
