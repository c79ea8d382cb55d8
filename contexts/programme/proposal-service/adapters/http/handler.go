package httpadapter

import (
	"context"
	"log/slog"

	"reviewdesk/contexts/programme/proposal-service/application/commands"
	"reviewdesk/contexts/programme/proposal-service/application/queries"
	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	"reviewdesk/contexts/programme/proposal-service/ports"
	httptransport "reviewdesk/contexts/programme/proposal-service/transport/http"
)

type Handler struct {
	Create     commands.CreateProposalUseCase
	Update     commands.UpdateProposalUseCase
	Transition commands.TransitionUseCase
	Anonymise  commands.AnonymiseUseCase
	Messages   commands.SendMessageUseCase
	Queries    queries.ProposalQueries
	Logger     *slog.Logger
}

func (h Handler) CreateProposalHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Create.Execute(ctx, commands.CreateProposalCommand{
		SubmitterID: userID,
		Type:        entities.ProposalType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Attendees:   req.Attendees,
		Cost:        req.Cost,
		Size:        req.Size,
		Funds:       req.Funds,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) SubmitProposalHandler(ctx context.Context, proposalID string) (httptransport.ProposalResponse, error) {
	proposal, err := h.Create.Submit(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) ListProposalsHandler(
	ctx context.Context,
	filter ports.ProposalFilter,
) (httptransport.ProposalListResponse, error) {
	proposals, err := h.Queries.List(ctx, filter)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	return httptransport.ProposalListResponse{Items: proposalResponses(proposals)}, nil
}

func (h Handler) GetProposalHandler(ctx context.Context, proposalID string) (httptransport.ProposalResponse, error) {
	detail, err := h.Queries.Get(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(detail.Proposal, detail.NextProposalID), nil
}

func (h Handler) UpdateProposalHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
	req httptransport.UpdateProposalRequest,
) (httptransport.ProposalResponse, error) {
	cmd := commands.UpdateProposalCommand{
		ProposalID: proposalID,
		ActorID:    actorID,
		Edits:      editsFromRequest(req),
	}
	if req.ForceState != nil {
		state := entities.ProposalState(*req.ForceState)
		cmd.ForceState = &state
	}
	proposal, err := h.Update.Execute(ctx, cmd)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) RejectProposalHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
	req httptransport.UpdateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Update.Reject(ctx, commands.UpdateProposalCommand{
		ProposalID: proposalID,
		ActorID:    actorID,
		Edits:      editsFromRequest(req),
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) SendForAnonymisationHandler(
	ctx context.Context,
	proposalID string,
	actorID string,
	req httptransport.UpdateProposalRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Update.SendForAnonymisation(ctx, commands.UpdateProposalCommand{
		ProposalID: proposalID,
		ActorID:    actorID,
		Edits:      editsFromRequest(req),
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) SetStateHandler(
	ctx context.Context,
	proposalID string,
	req httptransport.SetStateRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Transition.SetState(ctx, commands.SetStateCommand{
		ProposalID: proposalID,
		To:         entities.ProposalState(req.State),
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) AnonymiserWorklistHandler(ctx context.Context) (httptransport.ProposalListResponse, error) {
	proposals, err := h.Queries.AnonymiserWorklist(ctx)
	if err != nil {
		return httptransport.ProposalListResponse{}, err
	}
	return httptransport.ProposalListResponse{Items: proposalResponses(proposals)}, nil
}

func (h Handler) AnonymiseProposalHandler(
	ctx context.Context,
	proposalID string,
	anonymiserID string,
	req httptransport.AnonymiseRequest,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Anonymise.Execute(ctx, commands.AnonymiseCommand{
		ProposalID:   proposalID,
		AnonymiserID: anonymiserID,
		Title:        req.Title,
		Description:  req.Description,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) BlockAnonymisationHandler(
	ctx context.Context,
	proposalID string,
	anonymiserID string,
) (httptransport.ProposalResponse, error) {
	proposal, err := h.Anonymise.Block(ctx, commands.BlockAnonymisationCommand{
		ProposalID:   proposalID,
		AnonymiserID: anonymiserID,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return proposalResponse(proposal, ""), nil
}

func (h Handler) SendMessageHandler(
	ctx context.Context,
	proposalID string,
	userID string,
	req httptransport.SendMessageRequest,
) (httptransport.MessageResponse, error) {
	message, err := h.Messages.Execute(ctx, commands.SendMessageCommand{
		ProposalID: proposalID,
		FromUserID: userID,
		Body:       req.Body,
		ToAdmin:    req.ToAdmin,
	})
	if err != nil {
		return httptransport.MessageResponse{}, err
	}
	return messageResponse(message), nil
}

func (h Handler) MessageThreadHandler(ctx context.Context, proposalID string) (httptransport.MessageThreadResponse, error) {
	messages, err := h.Queries.Thread(ctx, proposalID)
	if err != nil {
		return httptransport.MessageThreadResponse{}, err
	}
	items := make([]httptransport.MessageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, messageResponse(message))
	}
	return httptransport.MessageThreadResponse{Items: items}, nil
}

func (h Handler) MarkThreadReadHandler(
	ctx context.Context,
	proposalID string,
	toAdmin bool,
) (httptransport.MarkReadResponse, error) {
	count, err := h.Messages.MarkThreadRead(ctx, proposalID, toAdmin)
	if err != nil {
		return httptransport.MarkReadResponse{}, err
	}
	return httptransport.MarkReadResponse{Count: count}, nil
}

func (h Handler) DashboardCountsHandler(ctx context.Context) (httptransport.DashboardCountsResponse, error) {
	counts, err := h.Queries.Counts(ctx)
	if err != nil {
		return httptransport.DashboardCountsResponse{}, err
	}
	byState := make(map[string]int, len(counts.ProposalsByState))
	for state, total := range counts.ProposalsByState {
		byState[string(state)] = total
	}
	return httptransport.DashboardCountsResponse{
		ProposalsByState: byState,
		UnreadMessages:   counts.UnreadMessages,
	}, nil
}

func editsFromRequest(req httptransport.UpdateProposalRequest) commands.ProposalEdits {
	return commands.ProposalEdits{
		Title:          req.Title,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Length:         req.Length,
		NoticeRequired: req.NoticeRequired,
		NeedsHelp:      req.NeedsHelp,
		NeedsMoney:     req.NeedsMoney,
		OneDay:         req.OneDay,
		Attendees:      req.Attendees,
		Cost:           req.Cost,
		Size:           req.Size,
		Funds:          req.Funds,
	}
}

func proposalResponses(proposals []entities.Proposal) []httptransport.ProposalResponse {
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, proposalResponse(proposal, ""))
	}
	return items
}

func proposalResponse(proposal entities.Proposal, nextID string) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:       proposal.ProposalID,
		Type:             string(proposal.Type),
		State:            string(proposal.State),
		SubmitterID:      proposal.SubmitterID,
		AnonymiserID:     proposal.AnonymiserID,
		HasRejectedEmail: proposal.HasRejectedEmail,
		Title:            proposal.Title,
		Description:      proposal.Description,
		Requirements:     proposal.Requirements,
		Length:           proposal.Length,
		NoticeRequired:   proposal.NoticeRequired,
		NeedsHelp:        proposal.NeedsHelp,
		NeedsMoney:       proposal.NeedsMoney,
		OneDay:           proposal.OneDay,
		Attendees:        proposal.Attendees,
		Cost:             proposal.Cost,
		Size:             proposal.Size,
		Funds:            proposal.Funds,
		NextProposalID:   nextID,
	}
}

func messageResponse(message entities.Message) httptransport.MessageResponse {
	return httptransport.MessageResponse{
		MessageID:   message.MessageID,
		ProposalID:  message.ProposalID,
		FromUserID:  message.FromUserID,
		Body:        message.Body,
		IsToAdmin:   message.IsToAdmin,
		HasBeenRead: message.HasBeenRead,
	}
}
