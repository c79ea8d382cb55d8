package commands

import (
	"context"
	"log/slog"
	"strings"

	application "reviewdesk/contexts/programme/review-service/application"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	"reviewdesk/contexts/programme/review-service/ports"
)

type StaleVotesCommand struct {
	ProposalID string
	ActorID    string

	// IncludeRecused opts recusals into the bulk invalidation; by default
	// only voted and blocked votes go stale.
	IncludeRecused bool
}

type ResolveVotesCommand struct {
	ProposalID string
	ActorID    string

	// VoteIDs selects which blocked/recused votes to resolve. Empty means
	// resolve every blocked vote (the answered-questions sweep).
	VoteIDs []string
}

// AdminVoteUseCase covers the administrative bulk mutations on a proposal's
// votes. Every pass also marks the proposal's vote notes as read, matching
// how the review team works through the follow-up list.
type AdminVoteUseCase struct {
	Votes  ports.VoteRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// SetStale invalidates votes cast under now-outdated circumstances, when a
// round restarts with updated proposal information.
func (uc AdminVoteUseCase) SetStale(ctx context.Context, cmd StaleVotesCommand) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return 0, domainerrors.ErrUnauthorizedActor
	}
	votes, err := uc.Votes.ListVotesByProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return 0, err
	}

	now := uc.Clock.Now().UTC()
	changed := make([]entities.Vote, 0, len(votes))
	count := 0
	for _, vote := range votes {
		eligible := vote.State == entities.VoteStateVoted || vote.State == entities.VoteStateBlocked ||
			(cmd.IncludeRecused && vote.State == entities.VoteStateRecused)
		if eligible {
			vote.State = entities.VoteStateStale
			vote.UpdatedAt = now
			count++
		}
		if !vote.HasBeenRead {
			vote.HasBeenRead = true
			vote.UpdatedAt = now
		}
		changed = append(changed, vote)
	}
	if err := uc.Votes.UpdateVotes(ctx, changed); err != nil {
		return 0, err
	}

	logger.Info("votes set stale",
		"event", "votes_set_stale",
		"module", "programme/review-service",
		"layer", "application",
		"proposal_id", strings.TrimSpace(cmd.ProposalID),
		"count", count,
		"include_recused", cmd.IncludeRecused,
	)
	return count, nil
}

// Resolve reopens selected blocked/recused votes, or every blocked vote
// when no selection is given, independent of reviewer action.
func (uc AdminVoteUseCase) Resolve(ctx context.Context, cmd ResolveVotesCommand) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return 0, domainerrors.ErrUnauthorizedActor
	}
	votes, err := uc.Votes.ListVotesByProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return 0, err
	}

	selected := make(map[string]bool, len(cmd.VoteIDs))
	for _, id := range cmd.VoteIDs {
		selected[strings.TrimSpace(id)] = true
	}

	now := uc.Clock.Now().UTC()
	changed := make([]entities.Vote, 0, len(votes))
	count := 0
	for _, vote := range votes {
		resolvable := false
		if len(selected) > 0 {
			resolvable = selected[vote.VoteID] &&
				(vote.State == entities.VoteStateBlocked || vote.State == entities.VoteStateRecused)
		} else {
			resolvable = vote.State == entities.VoteStateBlocked
		}
		if resolvable {
			vote.State = entities.VoteStateResolved
			vote.UpdatedAt = now
			count++
		}
		if !vote.HasBeenRead {
			vote.HasBeenRead = true
			vote.UpdatedAt = now
		}
		changed = append(changed, vote)
	}
	if err := uc.Votes.UpdateVotes(ctx, changed); err != nil {
		return 0, err
	}

	logger.Info("votes resolved",
		"event", "votes_resolved",
		"module", "programme/review-service",
		"layer", "application",
		"proposal_id", strings.TrimSpace(cmd.ProposalID),
		"count", count,
	)
	return count, nil
}

// MarkNotesRead clears the follow-up flag on every vote note for a proposal.
func (uc AdminVoteUseCase) MarkNotesRead(ctx context.Context, proposalID, actorID string) (int, error) {
	if strings.TrimSpace(actorID) == "" {
		return 0, domainerrors.ErrUnauthorizedActor
	}
	votes, err := uc.Votes.ListVotesByProposal(ctx, strings.TrimSpace(proposalID))
	if err != nil {
		return 0, err
	}
	now := uc.Clock.Now().UTC()
	changed := make([]entities.Vote, 0, len(votes))
	count := 0
	for _, vote := range votes {
		if vote.HasBeenRead {
			continue
		}
		vote.HasBeenRead = true
		vote.UpdatedAt = now
		changed = append(changed, vote)
		count++
	}
	if len(changed) == 0 {
		return 0, nil
	}
	if err := uc.Votes.UpdateVotes(ctx, changed); err != nil {
		return 0, err
	}
	return count, nil
}
