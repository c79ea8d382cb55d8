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

type AnonymiseCommand struct {
	ProposalID   string
	AnonymiserID string

	// Redacted replacement content written alongside the transition.
	Title       string
	Description string
}

type BlockAnonymisationCommand struct {
	ProposalID   string
	AnonymiserID string
}

type AnonymiseUseCase struct {
	Proposals ports.ProposalRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute records the redacted content and moves checked -> anonymised,
// stamping the anonymiser on the proposal.
func (uc AnonymiseUseCase) Execute(ctx context.Context, cmd AnonymiseCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.AnonymiserID) == "" {
		return entities.Proposal{}, domainerrors.ErrUnauthorizedActor
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	// Anonymisers only ever see checked proposals.
	if proposal.State != entities.ProposalStateChecked {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}

	proposal.Title = strings.TrimSpace(cmd.Title)
	proposal.Description = cmd.Description
	proposal.AnonymiserID = strings.TrimSpace(cmd.AnonymiserID)
	proposal.State = entities.ProposalStateAnonymised
	proposal.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal anonymised",
		"event", "proposal_anonymised",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"anonymiser_id", proposal.AnonymiserID,
	)
	return proposal, nil
}

// Block marks a checked proposal as impossible to anonymise; the content
// leaks the submitter's identity and needs an admin edit first.
func (uc AnonymiseUseCase) Block(ctx context.Context, cmd BlockAnonymisationCommand) (entities.Proposal, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.AnonymiserID) == "" {
		return entities.Proposal{}, domainerrors.ErrUnauthorizedActor
	}
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.State != entities.ProposalStateChecked {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}

	proposal.AnonymiserID = strings.TrimSpace(cmd.AnonymiserID)
	proposal.State = entities.ProposalStateAnonBlocked
	proposal.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Proposals.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}

	logger.Info("proposal anonymisation blocked",
		"event", "proposal_anonymisation_blocked",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"anonymiser_id", proposal.AnonymiserID,
	)
	return proposal, nil
}
