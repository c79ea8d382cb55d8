package queries

import (
	"context"
	"strings"

	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	"reviewdesk/contexts/programme/proposal-service/ports"
)

type ProposalQueries struct {
	Proposals ports.ProposalRepository
	Messages  ports.MessageRepository
}

// List returns proposals matching the admin filter, ordered by
// (state, modified, id) as the repository guarantees.
func (q ProposalQueries) List(ctx context.Context, filter ports.ProposalFilter) ([]entities.Proposal, error) {
	return q.Proposals.ListProposals(ctx, filter)
}

type ProposalDetail struct {
	Proposal entities.Proposal

	// NextProposalID points at the following proposal in the same state,
	// for worklist navigation. Empty when this is the last one.
	NextProposalID string
}

func (q ProposalQueries) Get(ctx context.Context, proposalID string) (ProposalDetail, error) {
	proposal, err := q.Proposals.GetProposal(ctx, strings.TrimSpace(proposalID))
	if err != nil {
		return ProposalDetail{}, err
	}
	detail := ProposalDetail{Proposal: proposal}
	next, ok, err := q.Proposals.NextProposalInState(ctx, proposal.State, proposal)
	if err != nil {
		return ProposalDetail{}, err
	}
	if ok {
		detail.NextProposalID = next.ProposalID
	}
	return detail, nil
}

// AnonymiserWorklist lists checked proposals in (modified, id) order.
func (q ProposalQueries) AnonymiserWorklist(ctx context.Context) ([]entities.Proposal, error) {
	return q.Proposals.ListProposals(ctx, ports.ProposalFilter{
		States: []entities.ProposalState{entities.ProposalStateChecked},
	})
}

type DashboardCounts struct {
	ProposalsByState map[entities.ProposalState]int
	UnreadMessages   int
}

// Counts backs the admin dashboard header: per-state proposal totals plus
// the number of unread proposer-to-admin messages.
func (q ProposalQueries) Counts(ctx context.Context) (DashboardCounts, error) {
	byState, err := q.Proposals.CountProposalsByState(ctx)
	if err != nil {
		return DashboardCounts{}, err
	}
	for _, state := range entities.OrderedProposalStates {
		if _, ok := byState[state]; !ok {
			byState[state] = 0
		}
	}
	unread, err := q.Messages.CountUnreadToAdmin(ctx)
	if err != nil {
		return DashboardCounts{}, err
	}
	return DashboardCounts{ProposalsByState: byState, UnreadMessages: unread}, nil
}

// Thread returns the message thread for one proposal in creation order.
func (q ProposalQueries) Thread(ctx context.Context, proposalID string) ([]entities.Message, error) {
	if _, err := q.Proposals.GetProposal(ctx, strings.TrimSpace(proposalID)); err != nil {
		return nil, err
	}
	return q.Messages.ListMessagesByProposal(ctx, strings.TrimSpace(proposalID))
}
