package commands

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	application "reviewdesk/contexts/programme/ranking-service/application"
	domainerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
	"reviewdesk/contexts/programme/ranking-service/ports"
	"reviewdesk/internal/shared/notify"
)

type ScoredProposal struct {
	ProposalID string
	Title      string
	Score      float64
}

type AcceptancePreview struct {
	Ranked      []ScoredProposal
	MinScore    float64
	WouldAccept int
	ExpiresAt   time.Time
}

type AcceptanceResult struct {
	Accepted         int
	RejectionNotices int
	MinScore         float64
}

// AcceptanceUseCase drives the two-phase acceptance run. Every reviewed
// proposal is scored once from its voted-state values; confirm accepts
// proposals at or above the stashed threshold and flags the rest for a
// rejection notice, sent at most once ever per proposal.
type AcceptanceUseCase struct {
	Proposals  ports.Repository
	Thresholds ports.ThresholdStore
	Scorer     ports.Scorer
	Notifier   ports.Notifier
	Clock      ports.Clock
	TokenTTL   time.Duration
	Logger     *slog.Logger
}

func (uc AcceptanceUseCase) Preview(ctx context.Context, actorID string, minScore float64) (AcceptancePreview, error) {
	if strings.TrimSpace(actorID) == "" {
		return AcceptancePreview{}, domainerrors.ErrUnauthorizedActor
	}
	if minScore < 0 || minScore > 1 {
		return AcceptancePreview{}, domainerrors.ErrInvalidThreshold
	}
	candidates, err := uc.Proposals.ListRankedCandidates(ctx)
	if err != nil {
		return AcceptancePreview{}, err
	}
	ranked := uc.rank(candidates)

	preview := AcceptancePreview{
		Ranked:    rankedView(ranked),
		MinScore:  minScore,
		ExpiresAt: uc.Clock.Now().UTC().Add(uc.tokenTTL()),
	}
	for _, candidate := range ranked {
		if candidate.score >= minScore {
			preview.WouldAccept++
		}
	}
	if err := uc.Thresholds.PutPendingThreshold(ctx, actorID, ports.PendingThreshold{
		Kind:      ports.ThresholdKindAcceptance,
		Value:     minScore,
		ExpiresAt: preview.ExpiresAt,
	}); err != nil {
		return AcceptancePreview{}, err
	}
	return preview, nil
}

func (uc AcceptanceUseCase) Confirm(ctx context.Context, actorID string) (AcceptanceResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(actorID) == "" {
		return AcceptanceResult{}, domainerrors.ErrUnauthorizedActor
	}
	token, found, err := uc.Thresholds.GetPendingThreshold(ctx, actorID, ports.ThresholdKindAcceptance)
	if err != nil {
		return AcceptanceResult{}, err
	}
	if !found || token.Kind != ports.ThresholdKindAcceptance {
		return AcceptanceResult{}, domainerrors.ErrStaleThreshold
	}
	now := uc.Clock.Now().UTC()
	if !token.ExpiresAt.IsZero() && now.After(token.ExpiresAt) {
		return AcceptanceResult{}, domainerrors.ErrStaleThreshold
	}
	minScore := token.Value

	candidates, err := uc.Proposals.ListRankedCandidates(ctx)
	if err != nil {
		return AcceptanceResult{}, err
	}
	ranked := uc.rank(candidates)

	accepted := make([]scoredCandidate, 0, len(ranked))
	rejected := make([]scoredCandidate, 0, len(ranked))
	for _, candidate := range ranked {
		if candidate.score >= minScore {
			accepted = append(accepted, candidate)
		} else if !candidate.HasRejectedEmail {
			rejected = append(rejected, candidate)
		}
	}

	if err := uc.Proposals.ApplyAcceptance(ctx, candidateIDs(accepted), candidateIDs(rejected), now); err != nil {
		return AcceptanceResult{}, err
	}
	if err := uc.Thresholds.DeletePendingThreshold(ctx, actorID, ports.ThresholdKindAcceptance); err != nil {
		return AcceptanceResult{}, err
	}

	// Notifications are best-effort after the commit; a delivery failure
	// never rolls the transitions back.
	for _, candidate := range accepted {
		uc.send(ctx, logger, notify.Notification{
			Kind:        notify.KindAccepted,
			RecipientID: candidate.SubmitterID,
			ProposalID:  candidate.ProposalID,
			Subject:     "Your proposal has been accepted!",
		})
	}
	for _, candidate := range rejected {
		uc.send(ctx, logger, notify.Notification{
			Kind:        notify.KindRejected,
			RecipientID: candidate.SubmitterID,
			ProposalID:  candidate.ProposalID,
			Subject:     "Your proposal",
		})
	}

	logger.Info("acceptance run committed",
		"event", "acceptance_run_committed",
		"module", "programme/ranking-service",
		"layer", "application",
		"actor_id", strings.TrimSpace(actorID),
		"min_score", minScore,
		"accepted", len(accepted),
		"rejection_notices", len(rejected),
	)
	return AcceptanceResult{
		Accepted:         len(accepted),
		RejectionNotices: len(rejected),
		MinScore:         minScore,
	}, nil
}

func (uc AcceptanceUseCase) Cancel(ctx context.Context, actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	return uc.Thresholds.DeletePendingThreshold(ctx, actorID, ports.ThresholdKindAcceptance)
}

type scoredCandidate struct {
	ports.RankedCandidate
	score float64
}

// rank scores each candidate exactly once and sorts descending. Equal scores
// fall back to the proposal id so the order is reproducible.
func (uc AcceptanceUseCase) rank(candidates []ports.RankedCandidate) []scoredCandidate {
	ranked := make([]scoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, scoredCandidate{
			RankedCandidate: candidate,
			score:           uc.Scorer.Score(candidate.VoteValues),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].ProposalID < ranked[j].ProposalID
	})
	return ranked
}

func (uc AcceptanceUseCase) send(ctx context.Context, logger *slog.Logger, notification notify.Notification) {
	if uc.Notifier == nil {
		return
	}
	if err := uc.Notifier.Send(ctx, notification); err != nil {
		logger.Error("notification delivery failed",
			"event", "notification_delivery_failed",
			"module", "programme/ranking-service",
			"layer", "application",
			"kind", notification.Kind,
			"proposal_id", notification.ProposalID,
			"error", err.Error(),
		)
	}
}

func (uc AcceptanceUseCase) tokenTTL() time.Duration {
	if uc.TokenTTL > 0 {
		return uc.TokenTTL
	}
	return DefaultThresholdTTL
}

func rankedView(ranked []scoredCandidate) []ScoredProposal {
	items := make([]ScoredProposal, 0, len(ranked))
	for _, candidate := range ranked {
		items = append(items, ScoredProposal{
			ProposalID: candidate.ProposalID,
			Title:      candidate.Title,
			Score:      candidate.score,
		})
	}
	return items
}

func candidateIDs(candidates []scoredCandidate) []string {
	ids := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.ProposalID)
	}
	return ids
}
