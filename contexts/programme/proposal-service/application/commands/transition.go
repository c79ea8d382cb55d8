package commands

import (
	"context"
	"log/slog"
	"strings"

	application "reviewdesk/contexts/programme/proposal-service/application"
	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
	"reviewdesk/contexts/programme/proposal-service/ports"
)

type SetStateCommand struct {
	ProposalID string
	To         entities.ProposalState
}

type ForceStateCommand struct {
	ProposalID string
	To         entities.ProposalState
	ActorID    string
}

// TransitionUseCase is the proposal state machine entry point. SetState
// validates the edge against the lifecycle graph; ForceState bypasses it
// for administrative corrections and is always logged because it can reach
// otherwise-unreachable states.
type TransitionUseCase struct {
	Proposals ports.ProposalRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc TransitionUseCase) SetState(ctx context.Context, cmd SetStateCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.To.Known() {
		return entities.Proposal{}, domainerrors.ErrUnknownProposalState
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if !proposal.State.CanTransitionTo(cmd.To) {
		return entities.Proposal{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Proposals.UpdateProposalState(ctx, proposal.ProposalID, proposal.State, cmd.To, now); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal state changed",
		"event", "proposal_state_changed",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"from", string(proposal.State),
		"to", string(cmd.To),
	)
	proposal.State = cmd.To
	proposal.UpdatedAt = now
	return proposal, nil
}

func (uc TransitionUseCase) ForceState(ctx context.Context, cmd ForceStateCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Proposal{}, domainerrors.ErrUnauthorizedActor
	}
	if !cmd.To.Known() {
		return entities.Proposal{}, domainerrors.ErrUnknownProposalState
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Proposals.ForceProposalState(ctx, proposal.ProposalID, cmd.To, now); err != nil {
		return entities.Proposal{}, err
	}

	logger.Warn("proposal state forced",
		"event", "proposal_state_forced",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
		"from", string(proposal.State),
		"to", string(cmd.To),
	)
	proposal.State = cmd.To
	proposal.UpdatedAt = now
	return proposal, nil
}
