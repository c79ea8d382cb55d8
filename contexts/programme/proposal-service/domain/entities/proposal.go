package entities

import (
	"strings"
	"time"
)

type ProposalType string

const (
	ProposalTypeTalk         ProposalType = "talk"
	ProposalTypeWorkshop     ProposalType = "workshop"
	ProposalTypeInstallation ProposalType = "installation"
)

type ProposalState string

const (
	ProposalStateEdit        ProposalState = "edit"
	ProposalStateNew         ProposalState = "new"
	ProposalStateLocked      ProposalState = "locked"
	ProposalStateChecked     ProposalState = "checked"
	ProposalStateRejected    ProposalState = "rejected"
	ProposalStateAnonymised  ProposalState = "anonymised"
	ProposalStateAnonBlocked ProposalState = "anon-blocked"
	ProposalStateReviewed    ProposalState = "reviewed"
	ProposalStateAccepted    ProposalState = "accepted"
	ProposalStateFinished    ProposalState = "finished"
)

// OrderedProposalStates lists every proposal state in workflow order.
// "locked" has no edges in the transition graph and is only reachable
// through a forced administrative update.
var OrderedProposalStates = []ProposalState{
	ProposalStateEdit,
	ProposalStateNew,
	ProposalStateLocked,
	ProposalStateChecked,
	ProposalStateRejected,
	ProposalStateAnonymised,
	ProposalStateAnonBlocked,
	ProposalStateReviewed,
	ProposalStateAccepted,
	ProposalStateFinished,
}

// proposalTransitions is the allowed edge set of the proposal lifecycle.
// reviewed -> reviewed is deliberate: a proposal may survive several review
// rounds before acceptance.
var proposalTransitions = map[ProposalState][]ProposalState{
	ProposalStateEdit:        {ProposalStateNew},
	ProposalStateNew:         {ProposalStateChecked, ProposalStateRejected},
	ProposalStateChecked:     {ProposalStateAnonymised, ProposalStateAnonBlocked, ProposalStateRejected},
	ProposalStateAnonBlocked: {ProposalStateChecked, ProposalStateRejected},
	ProposalStateAnonymised:  {ProposalStateReviewed},
	ProposalStateReviewed:    {ProposalStateReviewed, ProposalStateAccepted},
	ProposalStateAccepted:    {ProposalStateFinished},
}

func (s ProposalState) Known() bool {
	for _, state := range OrderedProposalStates {
		if state == s {
			return true
		}
	}
	return false
}

func (s ProposalState) CanTransitionTo(next ProposalState) bool {
	for _, allowed := range proposalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the state has no outgoing edges left.
func (s ProposalState) Terminal() bool {
	return s == ProposalStateRejected || s == ProposalStateFinished
}

type Proposal struct {
	ProposalID       string
	Type             ProposalType
	State            ProposalState
	SubmitterID      string
	AnonymiserID     string
	HasRejectedEmail bool

	Title          string
	Description    string
	Requirements   string
	Length         string
	NoticeRequired string
	NeedsHelp      bool
	NeedsMoney     bool
	OneDay         bool

	// Type-specific attributes, opaque to the workflow engine.
	Attendees string
	Cost      string
	Size      string
	Funds     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Proposal) ValidateCreate() bool {
	if strings.TrimSpace(p.SubmitterID) == "" || strings.TrimSpace(p.Title) == "" {
		return false
	}
	switch p.Type {
	case ProposalTypeTalk, ProposalTypeWorkshop, ProposalTypeInstallation:
		return true
	default:
		return false
	}
}
