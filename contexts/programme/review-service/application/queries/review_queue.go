package queries

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "reviewdesk/contexts/programme/review-service/application"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	"reviewdesk/contexts/programme/review-service/ports"
)

const (
	// DefaultBatchSize caps how many proposals one queue build surfaces.
	DefaultBatchSize = 30

	// DefaultRebuildInterval is how long a reviewer must be away before new
	// material triggers a rebuild of their cached order.
	DefaultRebuildInterval = time.Hour
)

type BuildQueueQuery struct {
	ReviewerID string
	Admin      bool

	// Reshuffle discards the cached order ("show me some different
	// proposals") and forces a rebuild.
	Reshuffle bool
}

type QueueItem struct {
	ProposalID string
	Title      string
	Type       string

	// IsNew marks proposals the reviewer has not settled yet: reopened or
	// stale votes, and fresh arrivals since the cached order was built.
	IsNew bool
}

type ReviewedItem struct {
	ProposalID string
	Title      string
	VoteState  entities.VoteState
	VoteValue  int
	VotedAt    time.Time
}

type ReviewQueue struct {
	Items    []QueueItem
	Reviewed []ReviewedItem
	Rebuilt  bool
}

// ReviewQueueUseCase builds the per-reviewer review queue and keeps its
// order stable across page loads until a rebuild is legitimately due.
type ReviewQueueUseCase struct {
	Votes           ports.VoteRepository
	Proposals       ports.ProposalReader
	Sessions        ports.SessionStore
	Clock           ports.Clock
	Shuffler        ports.Shuffler
	Locks           *application.ReviewerLocks
	BatchSize       int
	RebuildInterval time.Duration
	Logger          *slog.Logger
}

func (uc ReviewQueueUseCase) Execute(ctx context.Context, query BuildQueueQuery) (ReviewQueue, error) {
	logger := application.ResolveLogger(uc.Logger)
	reviewerID := strings.TrimSpace(query.ReviewerID)
	if reviewerID == "" {
		return ReviewQueue{}, domainerrors.ErrInvalidReviewInput
	}
	if uc.Locks != nil {
		unlock := uc.Locks.Lock(reviewerID)
		defer unlock()
	}
	now := uc.Clock.Now().UTC()

	session, found, err := uc.Sessions.GetReviewSession(ctx, reviewerID)
	if err != nil {
		return ReviewQueue{}, err
	}
	hasOrder := found && session.Order != nil
	if query.Reshuffle {
		hasOrder = false
		session.Order = nil
		session.BuiltAt = now
	}

	lastVisit := session.LastVisit
	builtAt := session.BuiltAt
	if lastVisit.IsZero() {
		// First visit this session: the reviewer's last vote is the best
		// available proxy for when they were last here.
		latest, ok, err := uc.Votes.LatestVoteByReviewer(ctx, reviewerID)
		if err != nil {
			return ReviewQueue{}, err
		}
		if ok {
			lastVisit = latest.UpdatedAt
			builtAt = latest.UpdatedAt
		}
	}

	proposals, err := uc.Proposals.ListReviewableProposals(ctx)
	if err != nil {
		return ReviewQueue{}, err
	}
	votes, err := uc.Votes.ListVotesByReviewer(ctx, reviewerID)
	if err != nil {
		return ReviewQueue{}, err
	}
	voteByProposal := make(map[string]entities.Vote, len(votes))
	for _, vote := range votes {
		voteByProposal[vote.ProposalID] = vote
	}

	var toReviewAgain, toReviewNew, toReviewOld []ports.ProposalProjection
	var reviewed []ReviewedItem
	byID := make(map[string]ports.ProposalProjection, len(proposals))
	freshIDs := make(map[string]bool)

	for _, proposal := range proposals {
		if !proposal.ReviewableBy(reviewerID, query.Admin) {
			continue
		}
		byID[proposal.ProposalID] = proposal
		vote, hasVote := voteByProposal[proposal.ProposalID]
		switch {
		case hasVote && vote.State.NeedsReview():
			toReviewAgain = append(toReviewAgain, proposal)
			freshIDs[proposal.ProposalID] = true
		case hasVote:
			reviewed = append(reviewed, ReviewedItem{
				ProposalID: proposal.ProposalID,
				Title:      proposal.Title,
				VoteState:  vote.State,
				VoteValue:  vote.Value,
				VotedAt:    vote.UpdatedAt,
			})
		case lastVisit.IsZero() || builtAt.IsZero() || proposal.UpdatedAt.Before(builtAt):
			// The modified timestamp only approximates when a proposal
			// became reviewable, but it is near enough.
			toReviewOld = append(toReviewOld, proposal)
		default:
			toReviewNew = append(toReviewNew, proposal)
			freshIDs[proposal.ProposalID] = true
		}
	}

	sort.Slice(reviewed, func(i, j int) bool {
		if reviewed[i].VoteState != reviewed[j].VoteState {
			return reviewed[i].VoteState > reviewed[j].VoteState
		}
		if reviewed[i].VoteValue != reviewed[j].VoteValue {
			return reviewed[i].VoteValue > reviewed[j].VoteValue
		}
		return reviewed[i].VotedAt.After(reviewed[j].VotedAt)
	})

	rebuild := !hasOrder ||
		!containsAll(session.Order, projectionIDs(toReviewAgain)) ||
		(len(toReviewNew) > 0 && (lastVisit.IsZero() || now.Sub(lastVisit) > uc.rebuildInterval()))

	var order []string
	if rebuild {
		uc.shuffle(toReviewAgain)
		uc.shuffle(toReviewNew)
		uc.shuffle(toReviewOld)

		// Everything the reviewer must see again goes first; remaining
		// batch capacity splits between new and old in proportion to their
		// sizes, rounding the old share down so fresh material is never
		// squeezed out entirely.
		order = projectionIDs(toReviewAgain)
		otherMax := uc.batchSize() - len(order)
		if otherMax < 0 {
			otherMax = 0
		}
		otherCount := len(toReviewNew) + len(toReviewOld)
		if otherCount > 0 {
			oldMax := otherMax * len(toReviewOld) / otherCount
			newMax := otherMax - oldMax
			order = append(order, projectionIDs(toReviewNew[:minInt(newMax, len(toReviewNew))])...)
			order = append(order, projectionIDs(toReviewOld[:minInt(oldMax, len(toReviewOld))])...)
		}

		session.Order = order
		session.BuiltAt = lastVisit
		session.LastVisit = now
		logger.Info("review queue rebuilt",
			"event", "review_queue_rebuilt",
			"module", "programme/review-service",
			"layer", "application",
			"reviewer_id", reviewerID,
			"again", len(toReviewAgain),
			"new", len(toReviewNew),
			"old", len(toReviewOld),
		)
	} else {
		// Replay the cached order, dropping ids that fell out of
		// eligibility since it was built. The stored order is left alone so
		// a proposal that comes back resumes its old position.
		order = make([]string, 0, len(session.Order))
		for _, id := range session.Order {
			if _, ok := byID[id]; ok {
				if vote, hasVote := voteByProposal[id]; hasVote && vote.State.Settled() {
					continue
				}
				order = append(order, id)
			}
		}
		session.LastVisit = now
	}

	if err := uc.Sessions.PutReviewSession(ctx, reviewerID, session); err != nil {
		return ReviewQueue{}, err
	}

	items := make([]QueueItem, 0, len(order))
	for _, id := range order {
		proposal, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, QueueItem{
			ProposalID: id,
			Title:      proposal.Title,
			Type:       proposal.Type,
			IsNew:      freshIDs[id],
		})
	}
	return ReviewQueue{Items: items, Reviewed: reviewed, Rebuilt: rebuild}, nil
}

func (uc ReviewQueueUseCase) batchSize() int {
	if uc.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return uc.BatchSize
}

func (uc ReviewQueueUseCase) rebuildInterval() time.Duration {
	if uc.RebuildInterval <= 0 {
		return DefaultRebuildInterval
	}
	return uc.RebuildInterval
}

func (uc ReviewQueueUseCase) shuffle(proposals []ports.ProposalProjection) {
	if uc.Shuffler == nil {
		return
	}
	uc.Shuffler.Shuffle(len(proposals), func(i, j int) {
		proposals[i], proposals[j] = proposals[j], proposals[i]
	})
}

func projectionIDs(proposals []ports.ProposalProjection) []string {
	ids := make([]string, 0, len(proposals))
	for _, proposal := range proposals {
		ids = append(ids, proposal.ProposalID)
	}
	return ids
}

func containsAll(order []string, ids []string) bool {
	present := make(map[string]bool, len(order))
	for _, id := range order {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			return false
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
