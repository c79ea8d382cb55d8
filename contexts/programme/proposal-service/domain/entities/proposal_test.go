package entities

import "testing"

func TestProposalTransitions(t *testing.T) {
	cases := []struct {
		from    ProposalState
		to      ProposalState
		allowed bool
	}{
		{ProposalStateEdit, ProposalStateNew, true},
		{ProposalStateNew, ProposalStateChecked, true},
		{ProposalStateNew, ProposalStateRejected, true},
		{ProposalStateChecked, ProposalStateAnonymised, true},
		{ProposalStateChecked, ProposalStateAnonBlocked, true},
		{ProposalStateChecked, ProposalStateRejected, true},
		{ProposalStateAnonBlocked, ProposalStateChecked, true},
		{ProposalStateAnonymised, ProposalStateReviewed, true},
		{ProposalStateReviewed, ProposalStateReviewed, true},
		{ProposalStateReviewed, ProposalStateAccepted, true},
		{ProposalStateAccepted, ProposalStateFinished, true},

		{ProposalStateNew, ProposalStateAnonymised, false},
		{ProposalStateEdit, ProposalStateChecked, false},
		{ProposalStateAnonymised, ProposalStateAccepted, false},
		{ProposalStateRejected, ProposalStateNew, false},
		{ProposalStateFinished, ProposalStateAccepted, false},
		{ProposalStateLocked, ProposalStateNew, false},
		{ProposalStateNew, ProposalStateLocked, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestProposalTerminalStates(t *testing.T) {
	for _, state := range OrderedProposalStates {
		terminal := state == ProposalStateRejected || state == ProposalStateFinished
		if got := state.Terminal(); got != terminal {
			t.Errorf("%s: Terminal() = %v, want %v", state, got, terminal)
		}
	}
}

func TestProposalStateKnown(t *testing.T) {
	for _, state := range OrderedProposalStates {
		if !state.Known() {
			t.Errorf("%s should be a known state", state)
		}
	}
	if ProposalState("bogus").Known() {
		t.Error("bogus should not be a known state")
	}
}
