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

// ProposalEdits carries the admin-editable fields. Nil pointers leave the
// stored value untouched.
type ProposalEdits struct {
	Title          *string
	Description    *string
	Requirements   *string
	Length         *string
	NoticeRequired *string
	NeedsHelp      *bool
	NeedsMoney     *bool
	OneDay         *bool
	Attendees      *string
	Cost           *string
	Size           *string
	Funds          *string
}

type UpdateProposalCommand struct {
	ProposalID string
	ActorID    string
	Edits      ProposalEdits

	// ForceState, when set, bypasses the transition graph (admin "force
	// update" correcting a workflow mistake).
	ForceState *entities.ProposalState
}

type UpdateProposalUseCase struct {
	Proposals ports.ProposalRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc UpdateProposalUseCase) Execute(ctx context.Context, cmd UpdateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Proposal{}, domainerrors.ErrUnauthorizedActor
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}

	applyEdits(&proposal, cmd.Edits)
	now := uc.Clock.Now().UTC()
	proposal.UpdatedAt = now

	if cmd.ForceState != nil {
		if !cmd.ForceState.Known() {
			return entities.Proposal{}, domainerrors.ErrUnknownProposalState
		}
		previous := proposal.State
		proposal.State = *cmd.ForceState
		if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
			return entities.Proposal{}, err
		}
		if previous != proposal.State {
			logger.Warn("proposal state forced",
				"event", "proposal_state_forced",
				"module", "programme/proposal-service",
				"layer", "application",
				"proposal_id", proposal.ProposalID,
				"actor_id", strings.TrimSpace(cmd.ActorID),
				"from", string(previous),
				"to", string(proposal.State),
			)
		}
		return proposal, nil
	}

	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	logger.Info("proposal updated",
		"event", "proposal_updated",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
	)
	return proposal, nil
}

// Reject applies edits and moves the proposal to rejected via the graph.
func (uc UpdateProposalUseCase) Reject(ctx context.Context, cmd UpdateProposalCommand) (entities.Proposal, error) {
	return uc.editThenTransition(ctx, cmd, entities.ProposalStateRejected)
}

// SendForAnonymisation applies edits and marks the proposal checked, making
// it available on the anonymiser worklist.
func (uc UpdateProposalUseCase) SendForAnonymisation(ctx context.Context, cmd UpdateProposalCommand) (entities.Proposal, error) {
	return uc.editThenTransition(ctx, cmd, entities.ProposalStateChecked)
}

func (uc UpdateProposalUseCase) editThenTransition(
	ctx context.Context,
	cmd UpdateProposalCommand,
	to entities.ProposalState,
) (entities.Proposal, error) {
	if strings.TrimSpace(cmd.ActorID) == "" {
		return entities.Proposal{}, domainerrors.ErrUnauthorizedActor
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if !proposal.State.CanTransitionTo(to) {
		return entities.Proposal{}, domainerrors.ErrInvalidStateTransition
	}

	applyEdits(&proposal, cmd.Edits)
	proposal.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}

	transition := TransitionUseCase{Proposals: uc.Proposals, Clock: uc.Clock, Logger: uc.Logger}
	return transition.SetState(ctx, SetStateCommand{ProposalID: proposal.ProposalID, To: to})
}

func applyEdits(proposal *entities.Proposal, edits ProposalEdits) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&proposal.Title, edits.Title)
	if edits.Description != nil {
		proposal.Description = *edits.Description
	}
	setString(&proposal.Requirements, edits.Requirements)
	setString(&proposal.Length, edits.Length)
	setString(&proposal.NoticeRequired, edits.NoticeRequired)
	setBool(&proposal.NeedsHelp, edits.NeedsHelp)
	setBool(&proposal.NeedsMoney, edits.NeedsMoney)
	setBool(&proposal.OneDay, edits.OneDay)
	setString(&proposal.Attendees, edits.Attendees)
	setString(&proposal.Cost, edits.Cost)
	setString(&proposal.Size, edits.Size)
	setString(&proposal.Funds, edits.Funds)
}
