package ports

import (
	"context"
	"time"

	"reviewdesk/internal/shared/notify"
)

// RoundCandidate is a proposal eligible for round close: state anonymised or
// reviewed, with at least one vote in the voted state.
type RoundCandidate struct {
	ProposalID string
	Title      string
	State      string
	VotedCount int
}

// RankedCandidate is a reviewed proposal with the vote values feeding the
// scorer, plus what acceptance needs to notify fairly.
type RankedCandidate struct {
	ProposalID       string
	Title            string
	SubmitterID      string
	HasRejectedEmail bool
	VoteValues       []int
}

type Repository interface {
	// ListRoundCandidates returns candidates ordered by voted count
	// descending.
	ListRoundCandidates(ctx context.Context) ([]RoundCandidate, error)

	// ListRankedCandidates returns every proposal in the reviewed state with
	// its voted-state vote values.
	ListRankedCandidates(ctx context.Context) ([]RankedCandidate, error)

	// CloseRound moves the given proposals to reviewed in one transaction.
	CloseRound(ctx context.Context, proposalIDs []string, updatedAt time.Time) error

	// ApplyAcceptance moves acceptIDs to accepted and sets the rejection
	// notice flag on rejectFlagIDs, all in one transaction.
	ApplyAcceptance(ctx context.Context, acceptIDs, rejectFlagIDs []string, updatedAt time.Time) error
}

// Scorer collapses one proposal's vote values (each 0, 1 or 2) into a single
// normalized score. It must be deterministic for a given multiset; tie-break
// behavior is the scorer's contract.
type Scorer interface {
	Score(values []int) float64
}

const (
	ThresholdKindCloseRound = "close_round"
	ThresholdKindAcceptance = "acceptance"
)

// PendingThreshold is the short-lived token a preview stashes and the
// matching confirm consumes.
type PendingThreshold struct {
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ThresholdStore interface {
	GetPendingThreshold(ctx context.Context, actorID, kind string) (PendingThreshold, bool, error)
	PutPendingThreshold(ctx context.Context, actorID string, token PendingThreshold) error
	DeletePendingThreshold(ctx context.Context, actorID, kind string) error
}

type Notifier interface {
	Send(ctx context.Context, notification notify.Notification) error
}

type Clock interface {
	Now() time.Time
}
