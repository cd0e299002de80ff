// Package common defines shared constants and sentinel errors used across
// client and server layers of the auth service. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors. ErrInvalidArgument and ErrPermissionDenied are
	// wrapped with a short detail message before being returned, so match
	// with errors.Is rather than equality.
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInternal         = errors.New("internal error")

	// Auth errors (invalid, expired or malformed access token).
	ErrInvalidToken = errors.New("invalid token")
)
