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

type CreateProposalCommand struct {
	SubmitterID string
	Type        entities.ProposalType
	Title       string
	Description string

	Attendees string
	Cost      string
	Size      string
	Funds     string
}

type CreateProposalUseCase struct {
	Proposals ports.ProposalRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// Execute creates a proposal in the edit state. The submission flow proper
// (drafting, locking dates) lives outside this service; Submit moves the
// finished draft into the review pipeline.
func (uc CreateProposalUseCase) Execute(ctx context.Context, cmd CreateProposalCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposal := entities.Proposal{
		Type:        cmd.Type,
		State:       entities.ProposalStateEdit,
		SubmitterID: strings.TrimSpace(cmd.SubmitterID),
		Title:       strings.TrimSpace(cmd.Title),
		Description: cmd.Description,
		Attendees:   strings.TrimSpace(cmd.Attendees),
		Cost:        strings.TrimSpace(cmd.Cost),
		Size:        strings.TrimSpace(cmd.Size),
		Funds:       strings.TrimSpace(cmd.Funds),
	}
	if !proposal.ValidateCreate() {
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}

	proposalID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	now := uc.Clock.Now().UTC()
	proposal.ProposalID = proposalID
	proposal.CreatedAt = now
	proposal.UpdatedAt = now

	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal created",
		"event", "proposal_created",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"proposal_type", string(proposal.Type),
	)
	return proposal, nil
}

// Submit moves an edit-state proposal into the pipeline.
func (uc CreateProposalUseCase) Submit(ctx context.Context, proposalID string) (entities.Proposal, error) {
	transition := TransitionUseCase{Proposals: uc.Proposals, Clock: uc.Clock, Logger: uc.Logger}
	return transition.SetState(ctx, SetStateCommand{
		ProposalID: proposalID,
		To:         entities.ProposalStateNew,
	})
}
