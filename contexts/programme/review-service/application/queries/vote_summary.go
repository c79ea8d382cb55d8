package queries

import (
	"context"
	"sort"

	"reviewdesk/contexts/programme/review-service/domain/entities"
	"reviewdesk/contexts/programme/review-service/ports"
)

type ProposalVoteSummary struct {
	ProposalID  string
	Title       string
	StateCounts map[entities.VoteState]int
	UnreadNotes int
}

type VoteSummaryUseCase struct {
	Votes     ports.VoteRepository
	Proposals ports.ProposalReader
}

// Execute lists every reviewable proposal with its per-state vote counts,
// proposals with unread reviewer notes first so follow-up work surfaces.
func (uc VoteSummaryUseCase) Execute(ctx context.Context) ([]ProposalVoteSummary, error) {
	proposals, err := uc.Proposals.ListReviewableProposals(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ProposalVoteSummary, 0, len(proposals))
	for _, proposal := range proposals {
		votes, err := uc.Votes.ListVotesByProposal(ctx, proposal.ProposalID)
		if err != nil {
			return nil, err
		}
		summary := ProposalVoteSummary{
			ProposalID:  proposal.ProposalID,
			Title:       proposal.Title,
			StateCounts: make(map[entities.VoteState]int),
		}
		for _, vote := range votes {
			summary.StateCounts[vote.State]++
			if !vote.HasBeenRead {
				summary.UnreadNotes++
			}
		}
		items = append(items, summary)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if (items[i].UnreadNotes > 0) != (items[j].UnreadNotes > 0) {
			return items[i].UnreadNotes > 0
		}
		return items[i].ProposalID < items[j].ProposalID
	})
	return items, nil
}

// ProposalVotes returns every vote on one proposal for the admin detail view.
func (uc VoteSummaryUseCase) ProposalVotes(ctx context.Context, proposalID string) ([]entities.Vote, error) {
	return uc.Votes.ListVotesByProposal(ctx, proposalID)
}
