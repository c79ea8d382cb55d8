package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewdesk/contexts/programme/review-service/adapters/memory"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
)

func seedProposalVotes(now time.Time) []entities.Vote {
	return []entities.Vote{
		{VoteID: "v1", ProposalID: "p1", ReviewerID: "rev-1", State: entities.VoteStateVoted, Value: 2, HasBeenRead: true, CreatedAt: now, UpdatedAt: now},
		{VoteID: "v2", ProposalID: "p1", ReviewerID: "rev-2", State: entities.VoteStateBlocked, Note: "needs an abstract", HasBeenRead: false, CreatedAt: now, UpdatedAt: now},
		{VoteID: "v3", ProposalID: "p1", ReviewerID: "rev-3", State: entities.VoteStateRecused, Note: "colleague", HasBeenRead: false, CreatedAt: now, UpdatedAt: now},
		{VoteID: "v4", ProposalID: "p1", ReviewerID: "rev-4", State: entities.VoteStateResolved, HasBeenRead: true, CreatedAt: now, UpdatedAt: now},
	}
}

func TestSetStaleLeavesRecusedByDefault(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	store.SetNow(now.Add(time.Hour))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	count, err := uc.SetStale(context.Background(), StaleVotesCommand{ProposalID: "p1", ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("SetStale failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected voted and blocked to go stale, got %d", count)
	}

	wantStates := map[string]entities.VoteState{
		"v1": entities.VoteStateStale,
		"v2": entities.VoteStateStale,
		"v3": entities.VoteStateRecused,
		"v4": entities.VoteStateResolved,
	}
	for id, want := range wantStates {
		vote, err := store.GetVote(context.Background(), id)
		if err != nil {
			t.Fatalf("GetVote(%s) failed: %v", id, err)
		}
		if vote.State != want {
			t.Errorf("%s: got %s, want %s", id, vote.State, want)
		}
		if !vote.HasBeenRead {
			t.Errorf("%s: note should be marked read", id)
		}
	}
}

func TestSetStaleIncludesRecusedOnRequest(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	store.SetNow(now.Add(time.Hour))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	count, err := uc.SetStale(context.Background(), StaleVotesCommand{
		ProposalID:     "p1",
		ActorID:        "admin-1",
		IncludeRecused: true,
	})
	if err != nil {
		t.Fatalf("SetStale failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 stale votes, got %d", count)
	}
	vote, _ := store.GetVote(context.Background(), "v3")
	if vote.State != entities.VoteStateStale {
		t.Fatalf("recused vote not invalidated: %s", vote.State)
	}
}

func TestResolveDefaultsToBlocked(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	store.SetNow(now.Add(time.Hour))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	count, err := uc.Resolve(context.Background(), ResolveVotesCommand{ProposalID: "p1", ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the blocked vote resolved, got %d", count)
	}
	v2, _ := store.GetVote(context.Background(), "v2")
	if v2.State != entities.VoteStateResolved {
		t.Fatalf("blocked vote not resolved: %s", v2.State)
	}
	v3, _ := store.GetVote(context.Background(), "v3")
	if v3.State != entities.VoteStateRecused {
		t.Fatalf("recused vote must stay put without a selection: %s", v3.State)
	}
}

func TestResolveSelection(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	store.SetNow(now.Add(time.Hour))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	// v1 is voted, so selecting it has no effect.
	count, err := uc.Resolve(context.Background(), ResolveVotesCommand{
		ProposalID: "p1",
		ActorID:    "admin-1",
		VoteIDs:    []string{"v1", "v3"},
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the recused vote resolved, got %d", count)
	}
	v3, _ := store.GetVote(context.Background(), "v3")
	if v3.State != entities.VoteStateResolved {
		t.Fatalf("selected recused vote not resolved: %s", v3.State)
	}
	v2, _ := store.GetVote(context.Background(), "v2")
	if v2.State != entities.VoteStateBlocked {
		t.Fatalf("unselected blocked vote must stay put: %s", v2.State)
	}
}

func TestAdminVotesRequireActor(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	if _, err := uc.SetStale(context.Background(), StaleVotesCommand{ProposalID: "p1"}); !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("SetStale: expected ErrUnauthorizedActor, got %v", err)
	}
	if _, err := uc.Resolve(context.Background(), ResolveVotesCommand{ProposalID: "p1"}); !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("Resolve: expected ErrUnauthorizedActor, got %v", err)
	}
	if _, err := uc.MarkNotesRead(context.Background(), "p1", ""); !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("MarkNotesRead: expected ErrUnauthorizedActor, got %v", err)
	}
}

func TestMarkNotesRead(t *testing.T) {
	now := time.Date(2026, time.April, 20, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore(seedProposalVotes(now))
	store.SetNow(now.Add(time.Hour))
	uc := AdminVoteUseCase{Votes: store, Clock: store}

	count, err := uc.MarkNotesRead(context.Background(), "p1", "admin-1")
	if err != nil {
		t.Fatalf("MarkNotesRead failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread notes cleared, got %d", count)
	}

	// A second pass is a no-op.
	count, err = uc.MarkNotesRead(context.Background(), "p1", "admin-1")
	if err != nil {
		t.Fatalf("second MarkNotesRead failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no remaining unread notes, got %d", count)
	}
}
