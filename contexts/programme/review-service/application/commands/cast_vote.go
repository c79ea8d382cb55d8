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

type ReviewAction string

const (
	// ActionVote records a 0/1/2 judgement.
	ActionVote ReviewAction = "vote"
	// ActionBlock asks the proposer for more information; needs a note.
	ActionBlock ReviewAction = "block"
	// ActionRecuse declares a conflict of interest; needs a note.
	ActionRecuse ReviewAction = "recuse"
	// ActionReopen lets the reviewer change an earlier response.
	ActionReopen ReviewAction = "reopen"
)

var actionStates = map[ReviewAction]entities.VoteState{
	ActionVote:   entities.VoteStateVoted,
	ActionBlock:  entities.VoteStateBlocked,
	ActionRecuse: entities.VoteStateRecused,
	ActionReopen: entities.VoteStateResolved,
}

type CastVoteCommand struct {
	ReviewerID string
	ProposalID string
	Admin      bool
	Action     ReviewAction
	Value      int
	Note       string
}

type CastVoteResult struct {
	Vote entities.Vote

	// NextProposalID is the queue position after this one, or the reopened
	// proposal itself so the reviewer can re-vote immediately.
	NextProposalID string
	Remaining      int
}

// CastVoteUseCase is the vote state machine entry point for reviewers. Vote
// rows are created lazily on first interaction; the (reviewer, proposal)
// pair stays unique because the repository upserts on it.
type CastVoteUseCase struct {
	Votes     ports.VoteRepository
	Proposals ports.ProposalReader
	Sessions  ports.SessionStore
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Locks     *application.ReviewerLocks
	Logger    *slog.Logger
}

func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	reviewerID := strings.TrimSpace(cmd.ReviewerID)
	proposalID := strings.TrimSpace(cmd.ProposalID)
	if reviewerID == "" || proposalID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidReviewInput
	}
	target, ok := actionStates[cmd.Action]
	if !ok {
		return CastVoteResult{}, domainerrors.ErrInvalidReviewInput
	}
	if cmd.Action == ActionVote && (cmd.Value < entities.VoteValueBad || cmd.Value > entities.VoteValueExcellent) {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteValue
	}
	note := strings.TrimSpace(cmd.Note)
	if target.RequiresNote() && note == "" {
		return CastVoteResult{}, domainerrors.ErrNoteRequired
	}

	proposal, err := uc.Proposals.GetReviewableProposal(ctx, proposalID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !proposal.ReviewableBy(reviewerID, cmd.Admin) {
		// Eligibility failures read as not-found so reviewers cannot probe
		// for proposals they must not see.
		return CastVoteResult{}, domainerrors.ErrProposalNotFound
	}

	if uc.Locks != nil {
		unlock := uc.Locks.Lock(reviewerID)
		defer unlock()
	}
	now := uc.Clock.Now().UTC()

	vote, exists, err := uc.Votes.GetVoteByPair(ctx, reviewerID, proposalID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !exists {
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CastVoteResult{}, err
		}
		vote = entities.Vote{
			VoteID:     voteID,
			ProposalID: proposalID,
			ReviewerID: reviewerID,
			State:      entities.VoteStateNew,
			CreatedAt:  now,
		}
	}

	if !vote.State.CanTransitionTo(target) {
		return CastVoteResult{}, domainerrors.ErrInvalidStateTransition
	}

	// A new note resurfaces for admin follow-up; responding without one
	// settles the previous note.
	if note != "" {
		vote.Note = note
		vote.HasBeenRead = false
	} else {
		vote.HasBeenRead = true
	}
	if cmd.Action == ActionVote {
		vote.Value = cmd.Value
	}
	vote.State = target
	vote.UpdatedAt = now

	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		return CastVoteResult{}, err
	}

	result := CastVoteResult{Vote: vote}
	session, found, err := uc.Sessions.GetReviewSession(ctx, reviewerID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if found && session.Order != nil {
		if cmd.Action == ActionReopen {
			session.Order = insertFront(removeID(session.Order, proposalID), proposalID)
			result.NextProposalID = proposalID
		} else {
			next := nextAfter(session.Order, proposalID)
			session.Order = removeID(session.Order, proposalID)
			result.NextProposalID = next
		}
		session.LastVisit = now
		if err := uc.Sessions.PutReviewSession(ctx, reviewerID, session); err != nil {
			return CastVoteResult{}, err
		}
		result.Remaining = len(session.Order)
	}

	logger.Info("review response recorded",
		"event", "review_response_recorded",
		"module", "programme/review-service",
		"layer", "application",
		"reviewer_id", reviewerID,
		"proposal_id", proposalID,
		"vote_state", string(vote.State),
	)
	return result, nil
}

func removeID(order []string, id string) []string {
	filtered := make([]string, 0, len(order))
	for _, candidate := range order {
		if candidate != id {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

func insertFront(order []string, id string) []string {
	return append([]string{id}, order...)
}

func nextAfter(order []string, id string) string {
	for i, candidate := range order {
		if candidate == id && i+1 < len(order) {
			return order[i+1]
		}
	}
	return ""
}
