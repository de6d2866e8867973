package identity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("identity: invalid input")
	ErrNotFound      = errors.New("identity: not found")
	ErrAlreadyExists = errors.New("identity: already exists")
	ErrUnauthorized  = errors.New("identity: unauthorized")

	// Authentication failures are distinguished so the caller can render
	// a specific message. Both wrap ErrUnauthorized.
	ErrIdentityNotFound = fmt.Errorf("%w: unknown or inactive account", ErrUnauthorized)
	ErrSecretMismatch   = fmt.Errorf("%w: secret mismatch", ErrUnauthorized)
)
