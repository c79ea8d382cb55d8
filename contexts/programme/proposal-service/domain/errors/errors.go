package errors

import "errors"

var (
	ErrProposalNotFound       = errors.New("proposal not found")
	ErrMessageNotFound        = errors.New("message not found")
	ErrInvalidStateTransition = errors.New("invalid proposal state transition")
	ErrUnknownProposalState   = errors.New("unknown proposal state")
	ErrInvalidProposalInput   = errors.New("invalid proposal input")
	ErrInvalidMessageInput    = errors.New("invalid message input")
	ErrUnauthorizedActor      = errors.New("actor is not authorized")
)
