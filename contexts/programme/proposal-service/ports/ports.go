package ports

import (
	"context"
	"time"

	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	"reviewdesk/internal/shared/notify"
)

// ProposalFilter narrows admin proposal listings. Nil pointer fields are
// not applied.
type ProposalFilter struct {
	Types      []entities.ProposalType
	States     []entities.ProposalState
	NeedsHelp  *bool
	NeedsMoney *bool
}

type ProposalRepository interface {
	SaveProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (entities.Proposal, error)

	// UpdateProposalState applies one validated transition atomically: the
	// update only lands if the row is still in the expected from state.
	UpdateProposalState(ctx context.Context, proposalID string, from, to entities.ProposalState, updatedAt time.Time) error

	// ForceProposalState bypasses the transition graph. Callers must log it.
	ForceProposalState(ctx context.Context, proposalID string, to entities.ProposalState, updatedAt time.Time) error

	ListProposals(ctx context.Context, filter ProposalFilter) ([]entities.Proposal, error)

	// NextProposalInState finds the proposal after the given one in the
	// (modified, id) ordering for the same state, for worklist navigation.
	NextProposalInState(ctx context.Context, state entities.ProposalState, after entities.Proposal) (entities.Proposal, bool, error)

	CountProposalsByState(ctx context.Context) (map[entities.ProposalState]int, error)
}

type MessageRepository interface {
	SaveMessage(ctx context.Context, message entities.Message) error
	ListMessagesByProposal(ctx context.Context, proposalID string) ([]entities.Message, error)
	MarkMessagesRead(ctx context.Context, proposalID string, toAdmin bool) (int, error)
	CountUnreadToAdmin(ctx context.Context) (int, error)
}

type Notifier interface {
	Send(ctx context.Context, notification notify.Notification) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
