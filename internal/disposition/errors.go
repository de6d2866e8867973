package disposition

import "errors"

var (
	ErrValidation      = errors.New("disposition: invalid input")
	ErrNotFound        = errors.New("disposition: not found")
	ErrProofRequired   = errors.New("disposition: completion proof is required")
	ErrAlreadyAssigned = errors.New("disposition: user already assigned")
	ErrUnauthorized    = errors.New("disposition: unauthorized")
)
