package errors

import "errors"

var (
	ErrProposalNotFound       = errors.New("proposal not found or not reviewable")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrInvalidStateTransition = errors.New("invalid vote state transition")
	ErrNoteRequired           = errors.New("a note is required for this response")
	ErrInvalidVoteValue       = errors.New("vote value must be 0, 1 or 2")
	ErrInvalidReviewInput     = errors.New("invalid review input")
	ErrUnauthorizedActor      = errors.New("actor is not authorized")
)
