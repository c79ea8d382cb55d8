package entities

import "testing"

func TestVoteTransitions(t *testing.T) {
	cases := []struct {
		from VoteState
		to   VoteState
		want bool
	}{
		{VoteStateNew, VoteStateVoted, true},
		{VoteStateNew, VoteStateBlocked, true},
		{VoteStateNew, VoteStateRecused, true},
		{VoteStateNew, VoteStateResolved, false},
		{VoteStateNew, VoteStateStale, false},

		{VoteStateVoted, VoteStateResolved, true},
		{VoteStateVoted, VoteStateStale, true},
		{VoteStateVoted, VoteStateBlocked, false},
		{VoteStateVoted, VoteStateNew, false},

		{VoteStateBlocked, VoteStateResolved, true},
		{VoteStateBlocked, VoteStateStale, true},
		{VoteStateBlocked, VoteStateVoted, false},

		{VoteStateRecused, VoteStateResolved, true},
		{VoteStateRecused, VoteStateStale, true},
		{VoteStateRecused, VoteStateRecused, false},

		{VoteStateResolved, VoteStateVoted, true},
		{VoteStateResolved, VoteStateBlocked, true},
		{VoteStateResolved, VoteStateRecused, true},
		{VoteStateResolved, VoteStateStale, false},

		{VoteStateStale, VoteStateVoted, true},
		{VoteStateStale, VoteStateBlocked, true},
		{VoteStateStale, VoteStateRecused, true},
		{VoteStateStale, VoteStateResolved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestVoteStateSettled(t *testing.T) {
	settled := []VoteState{VoteStateVoted, VoteStateBlocked, VoteStateRecused}
	pending := []VoteState{VoteStateNew, VoteStateResolved, VoteStateStale}

	for _, s := range settled {
		if !s.Settled() {
			t.Errorf("%s should be settled", s)
		}
		if s.NeedsReview() {
			t.Errorf("%s should not need review", s)
		}
	}
	for _, s := range pending {
		if s.Settled() {
			t.Errorf("%s should not be settled", s)
		}
		if !s.NeedsReview() {
			t.Errorf("%s should need review", s)
		}
	}
}

func TestVoteStateRequiresNote(t *testing.T) {
	for _, s := range []VoteState{VoteStateBlocked, VoteStateRecused} {
		if !s.RequiresNote() {
			t.Errorf("%s should require a note", s)
		}
	}
	for _, s := range []VoteState{VoteStateNew, VoteStateVoted, VoteStateResolved, VoteStateStale} {
		if s.RequiresNote() {
			t.Errorf("%s should not require a note", s)
		}
	}
}
