package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "reviewdesk/contexts/programme/ranking-service/application"
	domainerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
	"reviewdesk/contexts/programme/ranking-service/ports"
)

const (
	// MinCloseRoundVotes is the smallest usable vote threshold. Closing a
	// round on a single vote would let one reviewer decide a proposal.
	MinCloseRoundVotes = 2

	DefaultThresholdTTL = 15 * time.Minute
)

type RoundPreview struct {
	Candidates []ports.RoundCandidate
	MinVotes   int
	WouldClose int
	ExpiresAt  time.Time
}

type RoundCloseResult struct {
	Closed   int
	MinVotes int
}

// CloseRoundUseCase drives the two-phase round close. Preview stashes the
// chosen threshold as a pending token; confirm consumes the token and
// commits, so the threshold cannot silently change between the two calls.
type CloseRoundUseCase struct {
	Proposals  ports.Repository
	Thresholds ports.ThresholdStore
	Clock      ports.Clock
	TokenTTL   time.Duration
	Logger     *slog.Logger
}

func (uc CloseRoundUseCase) Preview(ctx context.Context, actorID string, minVotes int) (RoundPreview, error) {
	if strings.TrimSpace(actorID) == "" {
		return RoundPreview{}, domainerrors.ErrUnauthorizedActor
	}
	if minVotes < MinCloseRoundVotes {
		return RoundPreview{}, domainerrors.ErrInvalidThreshold
	}
	candidates, err := uc.Proposals.ListRoundCandidates(ctx)
	if err != nil {
		return RoundPreview{}, err
	}

	preview := RoundPreview{
		Candidates: candidates,
		MinVotes:   minVotes,
		ExpiresAt:  uc.Clock.Now().UTC().Add(uc.tokenTTL()),
	}
	for _, candidate := range candidates {
		if candidate.VotedCount >= minVotes {
			preview.WouldClose++
		}
	}
	if err := uc.Thresholds.PutPendingThreshold(ctx, actorID, ports.PendingThreshold{
		Kind:      ports.ThresholdKindCloseRound,
		Value:     float64(minVotes),
		ExpiresAt: preview.ExpiresAt,
	}); err != nil {
		return RoundPreview{}, err
	}
	return preview, nil
}

func (uc CloseRoundUseCase) Confirm(ctx context.Context, actorID string) (RoundCloseResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(actorID) == "" {
		return RoundCloseResult{}, domainerrors.ErrUnauthorizedActor
	}
	token, err := uc.consumeToken(ctx, actorID)
	if err != nil {
		return RoundCloseResult{}, err
	}
	minVotes := int(token.Value)

	candidates, err := uc.Proposals.ListRoundCandidates(ctx)
	if err != nil {
		return RoundCloseResult{}, err
	}
	closing := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.VotedCount >= minVotes {
			closing = append(closing, candidate.ProposalID)
		}
	}
	if err := uc.Proposals.CloseRound(ctx, closing, uc.Clock.Now().UTC()); err != nil {
		return RoundCloseResult{}, err
	}
	if err := uc.Thresholds.DeletePendingThreshold(ctx, actorID, ports.ThresholdKindCloseRound); err != nil {
		return RoundCloseResult{}, err
	}

	logger.Info("review round closed",
		"event", "review_round_closed",
		"module", "programme/ranking-service",
		"layer", "application",
		"actor_id", strings.TrimSpace(actorID),
		"min_votes", minVotes,
		"closed", len(closing),
	)
	return RoundCloseResult{Closed: len(closing), MinVotes: minVotes}, nil
}

func (uc CloseRoundUseCase) Cancel(ctx context.Context, actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return domainerrors.ErrUnauthorizedActor
	}
	return uc.Thresholds.DeletePendingThreshold(ctx, actorID, ports.ThresholdKindCloseRound)
}

// consumeToken validates the pending threshold without deleting it; deletion
// happens only after the commit succeeds so a failed commit keeps the
// preview usable.
func (uc CloseRoundUseCase) consumeToken(ctx context.Context, actorID string) (ports.PendingThreshold, error) {
	token, found, err := uc.Thresholds.GetPendingThreshold(ctx, actorID, ports.ThresholdKindCloseRound)
	if err != nil {
		return ports.PendingThreshold{}, err
	}
	if !found || token.Kind != ports.ThresholdKindCloseRound {
		return ports.PendingThreshold{}, domainerrors.ErrStaleThreshold
	}
	if !token.ExpiresAt.IsZero() && uc.Clock.Now().UTC().After(token.ExpiresAt) {
		return ports.PendingThreshold{}, domainerrors.ErrStaleThreshold
	}
	return token, nil
}

func (uc CloseRoundUseCase) tokenTTL() time.Duration {
	if uc.TokenTTL > 0 {
		return uc.TokenTTL
	}
	return DefaultThresholdTTL
}
