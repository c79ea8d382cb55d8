package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	proposalentities "reviewdesk/contexts/programme/proposal-service/domain/entities"
	proposalerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
	proposalports "reviewdesk/contexts/programme/proposal-service/ports"
	proposalhttp "reviewdesk/contexts/programme/proposal-service/transport/http"
)

func writeProposalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, proposalerrors.ErrProposalNotFound):
		writeError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, proposalerrors.ErrMessageNotFound):
		writeError(w, http.StatusNotFound, "message_not_found", err.Error())
	case errors.Is(err, proposalerrors.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, proposalerrors.ErrUnknownProposalState):
		writeError(w, http.StatusBadRequest, "unknown_state", err.Error())
	case errors.Is(err, proposalerrors.ErrInvalidProposalInput),
		errors.Is(err, proposalerrors.ErrInvalidMessageInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, proposalerrors.ErrUnauthorizedActor):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req proposalhttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.proposals.Handler.CreateProposalHandler(r.Context(), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleSubmitProposal(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	resp, err := s.proposals.Handler.SubmitProposalHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	query := r.URL.Query()
	filter := proposalports.ProposalFilter{}
	for _, value := range query["type"] {
		filter.Types = append(filter.Types, proposalentities.ProposalType(value))
	}
	for _, value := range query["state"] {
		filter.States = append(filter.States, proposalentities.ProposalState(value))
	}
	if raw := query.Get("needs_help"); raw != "" {
		needsHelp := raw == "true"
		filter.NeedsHelp = &needsHelp
	}
	if raw := query.Get("needs_money"); raw != "" {
		needsMoney := raw == "true"
		filter.NeedsMoney = &needsMoney
	}

	resp, err := s.proposals.Handler.ListProposalsHandler(r.Context(), filter)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.proposals.Handler.GetProposalHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req proposalhttp.UpdateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.proposals.Handler.UpdateProposalHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetProposalState(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	var req proposalhttp.SetStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.proposals.Handler.SetStateHandler(r.Context(), r.PathValue("proposal_id"), req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	req := proposalhttp.UpdateProposalRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.proposals.Handler.SendForAnonymisationHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	req := proposalhttp.UpdateProposalRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.proposals.Handler.RejectProposalHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnonymiserWorklist(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, RoleAnonymiser); !ok {
		return
	}
	resp, err := s.proposals.Handler.AnonymiserWorklistHandler(r.Context())
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnonymiseProposal(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireRole(w, r, RoleAnonymiser)
	if !ok {
		return
	}
	var req proposalhttp.AnonymiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.proposals.Handler.AnonymiseProposalHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBlockAnonymisation(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireRole(w, r, RoleAnonymiser)
	if !ok {
		return
	}
	resp, err := s.proposals.Handler.BlockAnonymisationHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	var req proposalhttp.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.proposals.Handler.SendMessageHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMessageThread(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}
	resp, err := s.proposals.Handler.MessageThreadHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkThreadRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	// Admins clear the proposer-to-admin side; proposers clear the other.
	resp, err := s.proposals.Handler.MarkThreadReadHandler(r.Context(), r.PathValue("proposal_id"), identity.IsAdmin())
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDashboardCounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.proposals.Handler.DashboardCountsHandler(r.Context())
	if err != nil {
		writeProposalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
