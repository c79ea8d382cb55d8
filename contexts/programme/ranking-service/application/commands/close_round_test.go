package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewdesk/contexts/programme/ranking-service/adapters/memory"
	domainerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
)

func seedRoundProposals() []memory.Proposal {
	return []memory.Proposal{
		{ProposalID: "p1", Title: "Well reviewed", State: "anonymised", SubmitterID: "u1", VoteValues: []int{2, 1, 2, 1, 0}},
		{ProposalID: "p2", Title: "On the line", State: "anonymised", SubmitterID: "u2", VoteValues: []int{1, 1, 2, 0}},
		{ProposalID: "p3", Title: "Barely seen", State: "anonymised", SubmitterID: "u3", VoteValues: []int{2}},
		{ProposalID: "p4", Title: "Untouched", State: "anonymised", SubmitterID: "u4"},
		{ProposalID: "p5", Title: "Already reviewed", State: "reviewed", SubmitterID: "u5", VoteValues: []int{1, 1}},
	}
}

func TestCloseRoundPreviewRejectsLowThreshold(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store}

	_, err := uc.Preview(context.Background(), "admin-1", 1)
	if !errors.Is(err, domainerrors.ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestCloseRoundConfirmAtBoundary(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	store.SetNow(time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC))
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store}
	ctx := context.Background()

	preview, err := uc.Preview(ctx, "admin-1", 5)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// p1 has 5 votes, p2 sits one short at 4.
	if preview.WouldClose != 1 {
		t.Fatalf("expected 1 closable candidate, got %d", preview.WouldClose)
	}

	result, err := uc.Confirm(ctx, "admin-1")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if result.Closed != 1 || result.MinVotes != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}

	p1, _ := store.GetProposal("p1")
	if p1.State != "reviewed" {
		t.Fatalf("p1 should be reviewed, got %s", p1.State)
	}
	p2, _ := store.GetProposal("p2")
	if p2.State != "anonymised" {
		t.Fatalf("p2 must stay anonymised below the threshold, got %s", p2.State)
	}
}

func TestCloseRoundConfirmWithoutPreview(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store}

	_, err := uc.Confirm(context.Background(), "admin-1")
	if !errors.Is(err, domainerrors.ErrStaleThreshold) {
		t.Fatalf("expected ErrStaleThreshold, got %v", err)
	}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		proposal, _ := store.GetProposal(id)
		if proposal.State != "anonymised" {
			t.Fatalf("%s changed state on a refused confirm: %s", id, proposal.State)
		}
	}
}

func TestCloseRoundTokenConsumedOnCommit(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	store.SetNow(time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC))
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store}
	ctx := context.Background()

	if _, err := uc.Preview(ctx, "admin-1", 2); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if _, err := uc.Confirm(ctx, "admin-1"); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	_, err := uc.Confirm(ctx, "admin-1")
	if !errors.Is(err, domainerrors.ErrStaleThreshold) {
		t.Fatalf("second confirm should find no token, got %v", err)
	}
}

func TestCloseRoundTokenExpires(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	store.SetNow(time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC))
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store, TokenTTL: 15 * time.Minute}
	ctx := context.Background()

	if _, err := uc.Preview(ctx, "admin-1", 2); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	store.SetNow(time.Date(2026, time.May, 1, 10, 30, 0, 0, time.UTC))

	_, err := uc.Confirm(ctx, "admin-1")
	if !errors.Is(err, domainerrors.ErrStaleThreshold) {
		t.Fatalf("expected expired token to read as stale, got %v", err)
	}
}

func TestCloseRoundCancelDropsToken(t *testing.T) {
	store := memory.NewStore(seedRoundProposals())
	store.SetNow(time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC))
	uc := CloseRoundUseCase{Proposals: store, Thresholds: store, Clock: store}
	ctx := context.Background()

	if _, err := uc.Preview(ctx, "admin-1", 3); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if err := uc.Cancel(ctx, "admin-1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := uc.Confirm(ctx, "admin-1"); !errors.Is(err, domainerrors.ErrStaleThreshold) {
		t.Fatalf("cancelled preview must not confirm, got %v", err)
	}
}
