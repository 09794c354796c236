package services

import (
	"errors"
	"fmt"
)

// Caller-facing failures. Rule violations from the scoring package pass
// through unchanged.
var (
	ErrUnauthenticated   = errors.New("no account token or guest session supplied")
	ErrUnauthorized      = errors.New("caller is not authorized for this match")
	ErrSessionExpired    = errors.New("guest session has expired")
	ErrMatchNotFound     = errors.New("match not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInvalidTeamName   = errors.New("team names must not be empty")
	ErrAccountExists     = errors.New("username or email already registered")
	ErrInvalidAccount    = errors.New("username, email and a password of at least 8 characters are required")
	ErrInfrastructure    = errors.New("storage failure")
)

func infra(err error) error {
	return fmt.Errorf("%w: %w", ErrInfrastructure, err)
}
