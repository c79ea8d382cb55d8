package httpadapter

import (
	"context"
	"log/slog"

	"reviewdesk/contexts/programme/review-service/application/commands"
	"reviewdesk/contexts/programme/review-service/application/queries"
	"reviewdesk/contexts/programme/review-service/domain/entities"
	httptransport "reviewdesk/contexts/programme/review-service/transport/http"
)

type Handler struct {
	Queue      queries.ReviewQueueUseCase
	CastVote   commands.CastVoteUseCase
	AdminVotes commands.AdminVoteUseCase
	Summary    queries.VoteSummaryUseCase
	Logger     *slog.Logger
}

func (h Handler) ReviewQueueHandler(
	ctx context.Context,
	reviewerID string,
	admin bool,
	reshuffle bool,
) (httptransport.ReviewQueueResponse, error) {
	queue, err := h.Queue.Execute(ctx, queries.BuildQueueQuery{
		ReviewerID: reviewerID,
		Admin:      admin,
		Reshuffle:  reshuffle,
	})
	if err != nil {
		return httptransport.ReviewQueueResponse{}, err
	}
	items := make([]httptransport.QueueItemResponse, 0, len(queue.Items))
	for _, item := range queue.Items {
		items = append(items, httptransport.QueueItemResponse{
			ProposalID: item.ProposalID,
			Title:      item.Title,
			Type:       item.Type,
			IsNew:      item.IsNew,
		})
	}
	reviewed := make([]httptransport.ReviewedItemResponse, 0, len(queue.Reviewed))
	for _, item := range queue.Reviewed {
		reviewed = append(reviewed, httptransport.ReviewedItemResponse{
			ProposalID: item.ProposalID,
			Title:      item.Title,
			VoteState:  string(item.VoteState),
			VoteValue:  item.VoteValue,
			VotedAt:    item.VotedAt,
		})
	}
	return httptransport.ReviewQueueResponse{
		Items:    items,
		Reviewed: reviewed,
		Rebuilt:  queue.Rebuilt,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	proposalID string,
	reviewerID string,
	admin bool,
	req httptransport.CastVoteRequest,
) (httptransport.CastVoteResponse, error) {
	result, err := h.CastVote.Execute(ctx, commands.CastVoteCommand{
		ReviewerID: reviewerID,
		ProposalID: proposalID,
		Admin:      admin,
		Action:     commands.ReviewAction(req.Action),
		Value:      req.Value,
		Note:       req.Note,
	})
	if err != nil {
		return httptransport.CastVoteResponse{}, err
	}
	return httptransport.CastVoteResponse{
		Vote:           voteResponse(result.Vote),
		NextProposalID: result.NextProposalID,
		Remaining:      result.Remaining,
	}, nil
}

func (h Handler) StaleVotesHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
	req httptransport.StaleVotesRequest,
) (httptransport.BulkVoteResponse, error) {
	count, err := h.AdminVotes.SetStale(ctx, commands.StaleVotesCommand{
		ProposalID:     proposalID,
		ActorID:        actorID,
		IncludeRecused: req.IncludeRecused,
	})
	if err != nil {
		return httptransport.BulkVoteResponse{}, err
	}
	return httptransport.BulkVoteResponse{Count: count}, nil
}

func (h Handler) ResolveVotesHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
	req httptransport.ResolveVotesRequest,
) (httptransport.BulkVoteResponse, error) {
	count, err := h.AdminVotes.Resolve(ctx, commands.ResolveVotesCommand{
		ProposalID: proposalID,
		ActorID:    actorID,
		VoteIDs:    req.VoteIDs,
	})
	if err != nil {
		return httptransport.BulkVoteResponse{}, err
	}
	return httptransport.BulkVoteResponse{Count: count}, nil
}

func (h Handler) MarkNotesReadHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
) (httptransport.BulkVoteResponse, error) {
	count, err := h.AdminVotes.MarkNotesRead(ctx, proposalID, actorID)
	if err != nil {
		return httptransport.BulkVoteResponse{}, err
	}
	return httptransport.BulkVoteResponse{Count: count}, nil
}

func (h Handler) VoteSummaryHandler(ctx context.Context) (httptransport.VoteSummaryListResponse, error) {
	summaries, err := h.Summary.Execute(ctx)
	if err != nil {
		return httptransport.VoteSummaryListResponse{}, err
	}
	items := make([]httptransport.ProposalVoteSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		counts := make(map[string]int, len(summary.StateCounts))
		for state, total := range summary.StateCounts {
			counts[string(state)] = total
		}
		items = append(items, httptransport.ProposalVoteSummaryResponse{
			ProposalID:  summary.ProposalID,
			Title:       summary.Title,
			StateCounts: counts,
			UnreadNotes: summary.UnreadNotes,
		})
	}
	return httptransport.VoteSummaryListResponse{Items: items}, nil
}

func (h Handler) ProposalVotesHandler(ctx context.Context, proposalID string) (httptransport.ProposalVotesResponse, error) {
	votes, err := h.Summary.ProposalVotes(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalVotesResponse{}, err
	}
	items := make([]httptransport.VoteResponse, 0, len(votes))
	for _, vote := range votes {
		items = append(items, voteResponse(vote))
	}
	return httptransport.ProposalVotesResponse{Items: items}, nil
}

func voteResponse(vote entities.Vote) httptransport.VoteResponse {
	return httptransport.VoteResponse{
		VoteID:      vote.VoteID,
		ProposalID:  vote.ProposalID,
		ReviewerID:  vote.ReviewerID,
		State:       string(vote.State),
		Value:       vote.Value,
		Note:        vote.Note,
		HasBeenRead: vote.HasBeenRead,
		UpdatedAt:   vote.UpdatedAt,
	}
}
