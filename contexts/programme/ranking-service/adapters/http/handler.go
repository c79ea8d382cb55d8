package httpadapter

import (
	"context"
	"log/slog"

	"reviewdesk/contexts/programme/ranking-service/application/commands"
	httptransport "reviewdesk/contexts/programme/ranking-service/transport/http"
)

type Handler struct {
	CloseRound commands.CloseRoundUseCase
	Acceptance commands.AcceptanceUseCase
	Logger     *slog.Logger
}

func (h Handler) CloseRoundPreviewHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CloseRoundPreviewRequest,
) (httptransport.CloseRoundPreviewResponse, error) {
	preview, err := h.CloseRound.Preview(ctx, actorID, req.MinVotes)
	if err != nil {
		return httptransport.CloseRoundPreviewResponse{}, err
	}
	candidates := make([]httptransport.RoundCandidateResponse, 0, len(preview.Candidates))
	for _, candidate := range preview.Candidates {
		candidates = append(candidates, httptransport.RoundCandidateResponse{
			ProposalID: candidate.ProposalID,
			Title:      candidate.Title,
			State:      candidate.State,
			VotedCount: candidate.VotedCount,
		})
	}
	return httptransport.CloseRoundPreviewResponse{
		Candidates: candidates,
		MinVotes:   preview.MinVotes,
		WouldClose: preview.WouldClose,
		ExpiresAt:  preview.ExpiresAt,
	}, nil
}

func (h Handler) CloseRoundConfirmHandler(
	ctx context.Context,
	actorID string,
) (httptransport.CloseRoundConfirmResponse, error) {
	result, err := h.CloseRound.Confirm(ctx, actorID)
	if err != nil {
		return httptransport.CloseRoundConfirmResponse{}, err
	}
	return httptransport.CloseRoundConfirmResponse{
		Closed:   result.Closed,
		MinVotes: result.MinVotes,
	}, nil
}

func (h Handler) CloseRoundCancelHandler(ctx context.Context, actorID string) error {
	return h.CloseRound.Cancel(ctx, actorID)
}

func (h Handler) AcceptancePreviewHandler(
	ctx context.Context,
	actorID string,
	req httptransport.AcceptancePreviewRequest,
) (httptransport.AcceptancePreviewResponse, error) {
	preview, err := h.Acceptance.Preview(ctx, actorID, req.MinScore)
	if err != nil {
		return httptransport.AcceptancePreviewResponse{}, err
	}
	ranked := make([]httptransport.ScoredProposalResponse, 0, len(preview.Ranked))
	for _, proposal := range preview.Ranked {
		ranked = append(ranked, httptransport.ScoredProposalResponse{
			ProposalID: proposal.ProposalID,
			Title:      proposal.Title,
			Score:      proposal.Score,
		})
	}
	return httptransport.AcceptancePreviewResponse{
		Ranked:      ranked,
		MinScore:    preview.MinScore,
		WouldAccept: preview.WouldAccept,
		ExpiresAt:   preview.ExpiresAt,
	}, nil
}

func (h Handler) AcceptanceConfirmHandler(
	ctx context.Context,
	actorID string,
) (httptransport.AcceptanceConfirmResponse, error) {
	result, err := h.Acceptance.Confirm(ctx, actorID)
	if err != nil {
		return httptransport.AcceptanceConfirmResponse{}, err
	}
	return httptransport.AcceptanceConfirmResponse{
		Accepted:         result.Accepted,
		RejectionNotices: result.RejectionNotices,
		MinScore:         result.MinScore,
	}, nil
}

func (h Handler) AcceptanceCancelHandler(ctx context.Context, actorID string) error {
	return h.Acceptance.Cancel(ctx, actorID)
}
