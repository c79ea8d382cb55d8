package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"reviewdesk/contexts/programme/proposal-service/adapters/memory"
	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
)

func seedProposal(state entities.ProposalState) entities.Proposal {
	return entities.Proposal{
		ProposalID:  "prop-1",
		Type:        entities.ProposalTypeTalk,
		State:       state,
		SubmitterID: "user-1",
		Title:       "A talk about things",
		Description: "Details",
		CreatedAt:   time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSetStateValidEdge(t *testing.T) {
	store := memory.NewStore([]entities.Proposal{seedProposal(entities.ProposalStateNew)})
	store.SetNow(time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC))
	uc := TransitionUseCase{Proposals: store, Clock: store}

	proposal, err := uc.SetState(context.Background(), SetStateCommand{
		ProposalID: "prop-1",
		To:         entities.ProposalStateChecked,
	})
	if err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if proposal.State != entities.ProposalStateChecked {
		t.Fatalf("expected checked, got %s", proposal.State)
	}

	stored, err := store.GetProposal(context.Background(), "prop-1")
	if err != nil {
		t.Fatalf("GetProposal failed: %v", err)
	}
	if stored.State != entities.ProposalStateChecked {
		t.Fatalf("store kept %s, want checked", stored.State)
	}
}

func TestSetStateInvalidEdgeRejected(t *testing.T) {
	store := memory.NewStore([]entities.Proposal{seedProposal(entities.ProposalStateNew)})
	uc := TransitionUseCase{Proposals: store, Clock: store}

	_, err := uc.SetState(context.Background(), SetStateCommand{
		ProposalID: "prop-1",
		To:         entities.ProposalStateAccepted,
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}

	stored, _ := store.GetProposal(context.Background(), "prop-1")
	if stored.State != entities.ProposalStateNew {
		t.Fatalf("state changed on rejected transition: %s", stored.State)
	}
}

func TestSetStateUnknownState(t *testing.T) {
	store := memory.NewStore([]entities.Proposal{seedProposal(entities.ProposalStateNew)})
	uc := TransitionUseCase{Proposals: store, Clock: store}

	_, err := uc.SetState(context.Background(), SetStateCommand{
		ProposalID: "prop-1",
		To:         entities.ProposalState("limbo"),
	})
	if !errors.Is(err, domainerrors.ErrUnknownProposalState) {
		t.Fatalf("expected ErrUnknownProposalState, got %v", err)
	}
}

func TestForceStateBypassesGraph(t *testing.T) {
	store := memory.NewStore([]entities.Proposal{seedProposal(entities.ProposalStateRejected)})
	uc := TransitionUseCase{Proposals: store, Clock: store}

	// rejected has no outgoing edges; only a forced override can leave it.
	proposal, err := uc.ForceState(context.Background(), ForceStateCommand{
		ProposalID: "prop-1",
		To:         entities.ProposalStateLocked,
		ActorID:    "admin-1",
	})
	if err != nil {
		t.Fatalf("ForceState failed: %v", err)
	}
	if proposal.State != entities.ProposalStateLocked {
		t.Fatalf("expected locked, got %s", proposal.State)
	}
}

func TestForceStateRequiresActor(t *testing.T) {
	store := memory.NewStore([]entities.Proposal{seedProposal(entities.ProposalStateNew)})
	uc := TransitionUseCase{Proposals: store, Clock: store}

	_, err := uc.ForceState(context.Background(), ForceStateCommand{
		ProposalID: "prop-1",
		To:         entities.ProposalStateLocked,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected ErrUnauthorizedActor, got %v", err)
	}
}
