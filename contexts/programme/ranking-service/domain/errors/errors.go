package errors

import "errors"

var (
	// ErrStaleThreshold means a bulk confirm arrived without a live matching
	// preview token. The operation fails closed: nothing is committed.
	ErrStaleThreshold = errors.New("no matching threshold preview on record")

	ErrInvalidThreshold    = errors.New("threshold out of range")
	ErrInvalidRankingInput = errors.New("invalid ranking input")
	ErrUnauthorizedActor   = errors.New("actor is not allowed to perform this operation")
)
