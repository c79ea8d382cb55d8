package entities

import "time"

type VoteState string

const (
	// VoteStateNew is the implicit initial state: a vote row may not exist
	// yet for a (reviewer, proposal) pair.
	VoteStateNew      VoteState = "new"
	VoteStateVoted    VoteState = "voted"
	VoteStateBlocked  VoteState = "blocked"
	VoteStateRecused  VoteState = "recused"
	VoteStateResolved VoteState = "resolved"
	VoteStateStale    VoteState = "stale"
)

// Vote values (Bad / OK / Excellent). Only meaningful when the vote is in
// the voted state.
const (
	VoteValueBad       = 0
	VoteValueOK        = 1
	VoteValueExcellent = 2
)

var voteTransitions = map[VoteState][]VoteState{
	VoteStateNew:      {VoteStateVoted, VoteStateBlocked, VoteStateRecused},
	VoteStateVoted:    {VoteStateResolved, VoteStateStale},
	VoteStateBlocked:  {VoteStateResolved, VoteStateStale},
	VoteStateRecused:  {VoteStateResolved, VoteStateStale},
	VoteStateResolved: {VoteStateVoted, VoteStateBlocked, VoteStateRecused},
	VoteStateStale:    {VoteStateVoted, VoteStateBlocked, VoteStateRecused},
}

func (s VoteState) CanTransitionTo(next VoteState) bool {
	for _, allowed := range voteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Settled reports whether the reviewer has responded: the vote no longer
// needs to resurface on the review queue.
func (s VoteState) Settled() bool {
	return s == VoteStateVoted || s == VoteStateBlocked || s == VoteStateRecused
}

// NeedsReview reports whether the vote puts its proposal back on the
// reviewer's queue.
func (s VoteState) NeedsReview() bool {
	return s == VoteStateNew || s == VoteStateResolved || s == VoteStateStale
}

// RequiresNote reports whether a transition into this state must carry an
// explanation from the reviewer.
func (s VoteState) RequiresNote() bool {
	return s == VoteStateBlocked || s == VoteStateRecused
}

// Vote is one reviewer's response to one proposal. The (ReviewerID,
// ProposalID) pair is unique; rows are created lazily on first interaction
// and never deleted.
type Vote struct {
	VoteID      string
	ProposalID  string
	ReviewerID  string
	State       VoteState
	Value       int
	Note        string
	HasBeenRead bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
