package commands

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"reviewdesk/contexts/programme/ranking-service/adapters/memory"
	domainerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
	"reviewdesk/internal/shared/notify"
)

// meanScorer keeps scores predictable and records what it was asked to score.
type meanScorer struct {
	calls [][]int
}

func (s *meanScorer) Score(values []int) float64 {
	s.calls = append(s.calls, append([]int(nil), values...))
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(2*len(values))
}

func seedRankedProposals() []memory.Proposal {
	return []memory.Proposal{
		{ProposalID: "p1", Title: "Strong", State: "reviewed", SubmitterID: "u1", VoteValues: []int{2, 2, 1}},
		{ProposalID: "p2", Title: "Middle", State: "reviewed", SubmitterID: "u2", VoteValues: []int{1, 1, 1}},
		{ProposalID: "p3", Title: "Weak", State: "reviewed", SubmitterID: "u3", VoteValues: []int{0, 0, 1}},
		{ProposalID: "p4", Title: "Still in review", State: "anonymised", SubmitterID: "u4", VoteValues: []int{2, 2}},
	}
}

func newAcceptanceFixture(seed []memory.Proposal) (*memory.Store, *meanScorer, AcceptanceUseCase) {
	store := memory.NewStore(seed)
	store.SetNow(time.Date(2026, time.May, 2, 10, 0, 0, 0, time.UTC))
	scorer := &meanScorer{}
	uc := AcceptanceUseCase{
		Proposals:  store,
		Thresholds: store,
		Scorer:     scorer,
		Notifier:   store,
		Clock:      store,
	}
	return store, scorer, uc
}

func TestAcceptancePreviewScoresEachProposalOnce(t *testing.T) {
	_, scorer, uc := newAcceptanceFixture(seedRankedProposals())

	preview, err := uc.Preview(context.Background(), "admin-1", 0.5)
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// Only reviewed proposals rank; p4 is still in its round.
	if len(scorer.calls) != 3 {
		t.Fatalf("expected 3 scorer calls, got %d", len(scorer.calls))
	}
	if len(preview.Ranked) != 3 {
		t.Fatalf("expected 3 ranked proposals, got %d", len(preview.Ranked))
	}

	// Mean scores: p1 5/6, p2 3/6, p3 1/6; order is score descending.
	if preview.Ranked[0].ProposalID != "p1" || preview.Ranked[2].ProposalID != "p3" {
		t.Fatalf("unexpected ranking: %+v", preview.Ranked)
	}
	// p1 scores above 0.5, p2 exactly at it.
	if preview.WouldAccept != 2 {
		t.Fatalf("threshold is inclusive; expected 2, got %d", preview.WouldAccept)
	}

	// Candidates list in id order, so the first call carries p1's values.
	seen := append([]int(nil), scorer.calls[0]...)
	sort.Ints(seen)
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 2 {
		t.Fatalf("scorer should receive the exact value multiset, got %v", scorer.calls[0])
	}
}

func TestAcceptancePreviewRejectsBadThreshold(t *testing.T) {
	_, _, uc := newAcceptanceFixture(seedRankedProposals())

	for _, minScore := range []float64{-0.1, 1.5} {
		if _, err := uc.Preview(context.Background(), "admin-1", minScore); !errors.Is(err, domainerrors.ErrInvalidThreshold) {
			t.Fatalf("minScore=%v: expected ErrInvalidThreshold, got %v", minScore, err)
		}
	}
}

func TestAcceptanceConfirmPartitionsAndNotifies(t *testing.T) {
	store, _, uc := newAcceptanceFixture(seedRankedProposals())
	ctx := context.Background()

	if _, err := uc.Preview(ctx, "admin-1", 0.5); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	result, err := uc.Confirm(ctx, "admin-1")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if result.Accepted != 2 || result.RejectionNotices != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	p1, _ := store.GetProposal("p1")
	p2, _ := store.GetProposal("p2")
	if p1.State != "accepted" || p2.State != "accepted" {
		t.Fatalf("accepted proposals not transitioned: p1=%s p2=%s", p1.State, p2.State)
	}
	p3, _ := store.GetProposal("p3")
	if p3.State != "reviewed" || !p3.HasRejectedEmail {
		t.Fatalf("below-threshold proposal should stay reviewed with the notice flagged: %+v", p3)
	}
	p4, _ := store.GetProposal("p4")
	if p4.State != "anonymised" {
		t.Fatalf("proposal outside the round must not move: %s", p4.State)
	}

	notifications := store.Notifications()
	if len(notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications))
	}
	kinds := map[string]int{}
	for _, n := range notifications {
		kinds[n.Kind]++
	}
	if kinds[notify.KindAccepted] != 2 || kinds[notify.KindRejected] != 1 {
		t.Fatalf("unexpected notification kinds: %v", kinds)
	}
}

func TestAcceptanceRejectionNoticeSentOnce(t *testing.T) {
	seed := seedRankedProposals()
	seed[2].HasRejectedEmail = true
	store, _, uc := newAcceptanceFixture(seed)
	ctx := context.Background()

	if _, err := uc.Preview(ctx, "admin-1", 0.7); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	result, err := uc.Confirm(ctx, "admin-1")
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	// p2 gets its first notice; p3 had one from a previous run.
	if result.RejectionNotices != 1 {
		t.Fatalf("expected 1 rejection notice, got %d", result.RejectionNotices)
	}
	for _, n := range store.Notifications() {
		if n.Kind == notify.KindRejected && n.ProposalID == "p3" {
			t.Fatalf("p3 must not receive a second rejection notice")
		}
	}
}

func TestAcceptanceConfirmWithoutPreview(t *testing.T) {
	store, _, uc := newAcceptanceFixture(seedRankedProposals())

	_, err := uc.Confirm(context.Background(), "admin-1")
	if !errors.Is(err, domainerrors.ErrStaleThreshold) {
		t.Fatalf("expected ErrStaleThreshold, got %v", err)
	}
	if len(store.Notifications()) != 0 {
		t.Fatalf("refused confirm must not notify")
	}
}
