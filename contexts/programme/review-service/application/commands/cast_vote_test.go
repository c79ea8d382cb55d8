package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewdesk/contexts/programme/review-service/adapters/memory"
	application "reviewdesk/contexts/programme/review-service/application"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	"reviewdesk/contexts/programme/review-service/ports"
)

func newCastVoteFixture(t *testing.T) (*memory.Store, CastVoteUseCase) {
	t.Helper()
	store := memory.NewStore(nil)
	store.SetNow(time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC))
	for _, id := range []string{"p1", "p2", "p3"} {
		store.SetProposal(ports.ProposalProjection{
			ProposalID:  id,
			Type:        "talk",
			State:       "anonymised",
			SubmitterID: "speaker-9",
			Title:       "Proposal " + id,
		})
	}
	uc := CastVoteUseCase{
		Votes:     store,
		Proposals: store,
		Sessions:  store,
		Clock:     store,
		IDGen:     store,
		Locks:     application.NewReviewerLocks(),
	}
	return store, uc
}

func TestCastVoteRecordsAndAdvancesQueue(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	ctx := context.Background()
	now := store.Now()
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"p1", "p2", "p3"},
		BuiltAt:   now,
		LastVisit: now,
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	result, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionVote,
		Value:      entities.VoteValueExcellent,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Vote.State != entities.VoteStateVoted || result.Vote.Value != entities.VoteValueExcellent {
		t.Fatalf("unexpected vote: %+v", result.Vote)
	}
	if !result.Vote.HasBeenRead {
		t.Fatalf("vote without a note should be marked read")
	}
	if result.NextProposalID != "p2" {
		t.Fatalf("expected next proposal p2, got %q", result.NextProposalID)
	}
	if result.Remaining != 2 {
		t.Fatalf("expected 2 remaining, got %d", result.Remaining)
	}

	session, found, err := store.GetReviewSession(ctx, "rev-1")
	if err != nil || !found {
		t.Fatalf("session lookup: found=%v err=%v", found, err)
	}
	if len(session.Order) != 2 || session.Order[0] != "p2" || session.Order[1] != "p3" {
		t.Fatalf("unexpected session order: %v", session.Order)
	}

	vote, exists, err := store.GetVoteByPair(ctx, "rev-1", "p1")
	if err != nil || !exists {
		t.Fatalf("vote lookup: exists=%v err=%v", exists, err)
	}
	if vote.State != entities.VoteStateVoted {
		t.Fatalf("stored vote state %s, want voted", vote.State)
	}
}

func TestCastVoteBlockWithoutNote(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionBlock,
	})
	if !errors.Is(err, domainerrors.ErrNoteRequired) {
		t.Fatalf("expected ErrNoteRequired, got %v", err)
	}
	if _, exists, _ := store.GetVoteByPair(ctx, "rev-1", "p1"); exists {
		t.Fatalf("rejected block must not persist a vote")
	}
}

func TestCastVoteBlockWithNote(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	ctx := context.Background()

	result, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionBlock,
		Note:       "video link is broken",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Vote.State != entities.VoteStateBlocked {
		t.Fatalf("expected blocked, got %s", result.Vote.State)
	}
	if result.Vote.HasBeenRead {
		t.Fatalf("a fresh note must be unread")
	}

	vote, _, _ := store.GetVoteByPair(ctx, "rev-1", "p1")
	if vote.Note != "video link is broken" {
		t.Fatalf("note not persisted: %q", vote.Note)
	}
}

func TestCastVoteReopenReinsertsAtFront(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	ctx := context.Background()
	now := store.Now()

	if _, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionVote,
		Value:      entities.VoteValueOK,
	}); err != nil {
		t.Fatalf("initial vote failed: %v", err)
	}

	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"p2", "p3"},
		BuiltAt:   now,
		LastVisit: now,
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	result, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionReopen,
	})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if result.Vote.State != entities.VoteStateResolved {
		t.Fatalf("expected resolved, got %s", result.Vote.State)
	}
	if result.NextProposalID != "p1" {
		t.Fatalf("reopen should point back at the same proposal, got %q", result.NextProposalID)
	}

	session, _, _ := store.GetReviewSession(ctx, "rev-1")
	if len(session.Order) != 3 || session.Order[0] != "p1" {
		t.Fatalf("reopened proposal should lead the queue: %v", session.Order)
	}
}

func TestCastVotePairStaysUnique(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	ctx := context.Background()

	cmds := []CastVoteCommand{
		{ReviewerID: "rev-1", ProposalID: "p1", Action: ActionVote, Value: entities.VoteValueBad},
		{ReviewerID: "rev-1", ProposalID: "p1", Action: ActionReopen},
		{ReviewerID: "rev-1", ProposalID: "p1", Action: ActionVote, Value: entities.VoteValueExcellent},
	}
	for i, cmd := range cmds {
		if _, err := uc.Execute(ctx, cmd); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	votes, err := store.ListVotesByReviewer(ctx, "rev-1")
	if err != nil {
		t.Fatalf("ListVotesByReviewer failed: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected a single row per pair, got %d", len(votes))
	}
	if votes[0].Value != entities.VoteValueExcellent {
		t.Fatalf("latest vote value lost: %d", votes[0].Value)
	}
}

func TestCastVoteInvalidValue(t *testing.T) {
	_, uc := newCastVoteFixture(t)

	_, err := uc.Execute(context.Background(), CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionVote,
		Value:      3,
	})
	if !errors.Is(err, domainerrors.ErrInvalidVoteValue) {
		t.Fatalf("expected ErrInvalidVoteValue, got %v", err)
	}
}

func TestCastVoteOwnProposalHidden(t *testing.T) {
	store, uc := newCastVoteFixture(t)
	store.SetProposal(ports.ProposalProjection{
		ProposalID:  "mine",
		Type:        "talk",
		State:       "anonymised",
		SubmitterID: "rev-1",
		Title:       "My own talk",
	})

	_, err := uc.Execute(context.Background(), CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "mine",
		Action:     ActionVote,
		Value:      entities.VoteValueOK,
	})
	if !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("expected ErrProposalNotFound, got %v", err)
	}
}

func TestCastVoteSettledVoteCannotBeRecast(t *testing.T) {
	_, uc := newCastVoteFixture(t)
	ctx := context.Background()

	if _, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionVote,
		Value:      entities.VoteValueOK,
	}); err != nil {
		t.Fatalf("initial vote failed: %v", err)
	}

	_, err := uc.Execute(ctx, CastVoteCommand{
		ReviewerID: "rev-1",
		ProposalID: "p1",
		Action:     ActionVote,
		Value:      entities.VoteValueBad,
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}
