package queries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"reviewdesk/contexts/programme/review-service/adapters/memory"
	application "reviewdesk/contexts/programme/review-service/application"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	"reviewdesk/contexts/programme/review-service/ports"
)

// The memory store shuffler is a no-op, so bucket order follows the store's
// deterministic listing (UpdatedAt, then ProposalID).
func newQueueFixture() (*memory.Store, ReviewQueueUseCase) {
	store := memory.NewStore(nil)
	uc := ReviewQueueUseCase{
		Votes:           store,
		Proposals:       store,
		Sessions:        store,
		Clock:           store,
		Shuffler:        store,
		Locks:           application.NewReviewerLocks(),
		BatchSize:       30,
		RebuildInterval: time.Hour,
	}
	return store, uc
}

func addProposal(store *memory.Store, id string, updatedAt time.Time) {
	store.SetProposal(ports.ProposalProjection{
		ProposalID:  id,
		Type:        "talk",
		State:       "anonymised",
		SubmitterID: "speaker-9",
		Title:       "Proposal " + id,
		UpdatedAt:   updatedAt,
	})
}

func TestQueueProportionalFill(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 70; i++ {
		addProposal(store, fmt.Sprintf("old-%02d", i), base.Add(-time.Hour))
	}
	for i := 0; i < 30; i++ {
		addProposal(store, fmt.Sprintf("new-%02d", i), base.Add(time.Minute))
	}

	// A prior session with no cached order splits the pool into old and new
	// material around BuiltAt.
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		BuiltAt:   base,
		LastVisit: base,
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}
	store.SetNow(base.Add(2 * time.Hour))

	queue, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !queue.Rebuilt {
		t.Fatalf("expected a rebuild")
	}
	if len(queue.Items) != 30 {
		t.Fatalf("expected a full batch of 30, got %d", len(queue.Items))
	}

	// 30 slots split 9 new / 21 old, new material first.
	for i := 0; i < 9; i++ {
		if !queue.Items[i].IsNew {
			t.Fatalf("item %d (%s) should be new", i, queue.Items[i].ProposalID)
		}
	}
	for i := 9; i < 30; i++ {
		if queue.Items[i].IsNew {
			t.Fatalf("item %d (%s) should be old", i, queue.Items[i].ProposalID)
		}
	}
	if queue.Items[0].ProposalID != "new-00" || queue.Items[9].ProposalID != "old-00" {
		t.Fatalf("unexpected bucket boundaries: first=%s tenth=%s",
			queue.Items[0].ProposalID, queue.Items[9].ProposalID)
	}

	session, found, _ := store.GetReviewSession(ctx, "rev-1")
	if !found || len(session.Order) != 30 {
		t.Fatalf("session order not persisted: found=%v len=%d", found, len(session.Order))
	}
	if !session.BuiltAt.Equal(base) {
		t.Fatalf("rebuild should stamp BuiltAt with the previous visit, got %v", session.BuiltAt)
	}
	if !session.LastVisit.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("LastVisit not advanced: %v", session.LastVisit)
	}
}

func TestQueueSecondVisitReplaysSameOrder(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	base := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c"} {
		addProposal(store, id, base.Add(-time.Hour))
	}
	store.SetNow(base)

	first, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("first Execute failed: %v", err)
	}
	if !first.Rebuilt {
		t.Fatalf("first visit must build an order")
	}

	store.SetNow(base.Add(time.Minute))
	second, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if second.Rebuilt {
		t.Fatalf("an immediate revisit must replay the cached order")
	}
	if len(second.Items) != len(first.Items) {
		t.Fatalf("item count changed across replay: %d vs %d", len(first.Items), len(second.Items))
	}
	for i := range first.Items {
		if first.Items[i].ProposalID != second.Items[i].ProposalID {
			t.Fatalf("order changed across replay at %d: %s vs %s",
				i, first.Items[i].ProposalID, second.Items[i].ProposalID)
		}
	}
}

func TestQueueReplayFiltersSettledVotes(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(now)
	for _, id := range []string{"a", "b", "c"} {
		addProposal(store, id, now.Add(-time.Hour))
	}
	if err := store.SaveVote(ctx, entities.Vote{
		VoteID:     "v1",
		ProposalID: "b",
		ReviewerID: "rev-1",
		State:      entities.VoteStateVoted,
		Value:      entities.VoteValueOK,
		CreatedAt:  now.Add(-time.Minute),
		UpdatedAt:  now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"a", "b", "c"},
		BuiltAt:   now.Add(-time.Minute),
		LastVisit: now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	queue, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if queue.Rebuilt {
		t.Fatalf("a fresh session must replay, not rebuild")
	}
	if len(queue.Items) != 2 || queue.Items[0].ProposalID != "a" || queue.Items[1].ProposalID != "c" {
		t.Fatalf("unexpected replayed order: %+v", queue.Items)
	}
	if len(queue.Reviewed) != 1 || queue.Reviewed[0].ProposalID != "b" {
		t.Fatalf("settled vote missing from reviewed list: %+v", queue.Reviewed)
	}

	// The stored order keeps the settled id so a reopened vote resumes its
	// old position.
	session, _, _ := store.GetReviewSession(ctx, "rev-1")
	if len(session.Order) != 3 {
		t.Fatalf("stored order must be untouched by replay: %v", session.Order)
	}
}

func TestQueueNewArrivalsWaitForInterval(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(now)
	addProposal(store, "a", now.Add(-2*time.Hour))
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"a"},
		BuiltAt:   now.Add(-10 * time.Minute),
		LastVisit: now.Add(-10 * time.Minute),
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	// Fresh arrival since the order was built.
	addProposal(store, "z", now.Add(-time.Minute))

	queue, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if queue.Rebuilt {
		t.Fatalf("new material within the interval must not trigger a rebuild")
	}
	if len(queue.Items) != 1 || queue.Items[0].ProposalID != "a" {
		t.Fatalf("unexpected items: %+v", queue.Items)
	}

	// Once the reviewer has been away long enough the queue rebuilds and
	// the new arrival surfaces.
	store.SetNow(now.Add(2 * time.Hour))
	queue, err = uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("second Execute failed: %v", err)
	}
	if !queue.Rebuilt {
		t.Fatalf("expected a rebuild after the interval elapsed")
	}
	found := false
	for _, item := range queue.Items {
		if item.ProposalID == "z" {
			found = true
			if !item.IsNew {
				t.Fatalf("fresh arrival should be flagged new")
			}
		}
	}
	if !found {
		t.Fatalf("fresh arrival missing after rebuild: %+v", queue.Items)
	}
}

func TestQueueReshuffleForcesRebuild(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(now)
	for _, id := range []string{"a", "b"} {
		addProposal(store, id, now.Add(-time.Hour))
	}
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"b"},
		BuiltAt:   now.Add(-time.Minute),
		LastVisit: now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	queue, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1", Reshuffle: true})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !queue.Rebuilt {
		t.Fatalf("reshuffle must force a rebuild")
	}
	if len(queue.Items) != 2 {
		t.Fatalf("rebuild should surface the whole pool: %+v", queue.Items)
	}
}

func TestQueueReopenedVotesAlwaysLead(t *testing.T) {
	store, uc := newQueueFixture()
	ctx := context.Background()

	now := time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)
	store.SetNow(now)
	addProposal(store, "a", now.Add(-time.Hour))
	addProposal(store, "b", now.Add(-time.Hour))
	if err := store.SaveVote(ctx, entities.Vote{
		VoteID:     "v1",
		ProposalID: "b",
		ReviewerID: "rev-1",
		State:      entities.VoteStateStale,
		CreatedAt:  now.Add(-time.Hour),
		UpdatedAt:  now.Add(-time.Hour),
	}); err != nil {
		t.Fatalf("SaveVote failed: %v", err)
	}
	// The cached order predates the stale vote, so it no longer covers the
	// proposals that need a second look.
	if err := store.PutReviewSession(ctx, "rev-1", ports.ReviewSession{
		Order:     []string{"a"},
		BuiltAt:   now.Add(-time.Minute),
		LastVisit: now.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("PutReviewSession failed: %v", err)
	}

	queue, err := uc.Execute(ctx, BuildQueueQuery{ReviewerID: "rev-1"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !queue.Rebuilt {
		t.Fatalf("missing again-material must trigger a rebuild")
	}
	if len(queue.Items) == 0 || queue.Items[0].ProposalID != "b" {
		t.Fatalf("stale vote should lead the queue: %+v", queue.Items)
	}
	if !queue.Items[0].IsNew {
		t.Fatalf("again-material should be flagged new")
	}
}
