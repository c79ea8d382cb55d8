package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	reviewerrors "reviewdesk/contexts/programme/review-service/domain/errors"
	reviewhttp "reviewdesk/contexts/programme/review-service/transport/http"
)

func writeReviewDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reviewerrors.ErrProposalNotFound):
		writeError(w, http.StatusNotFound, "proposal_not_found", err.Error())
	case errors.Is(err, reviewerrors.ErrVoteNotFound):
		writeError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, reviewerrors.ErrInvalidStateTransition):
		writeError(w, http.StatusConflict, "invalid_state_transition", err.Error())
	case errors.Is(err, reviewerrors.ErrNoteRequired):
		writeError(w, http.StatusUnprocessableEntity, "note_required", err.Error())
	case errors.Is(err, reviewerrors.ErrInvalidVoteValue),
		errors.Is(err, reviewerrors.ErrInvalidReviewInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reviewerrors.ErrUnauthorizedActor):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleReviewQueue(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireRole(w, r, RoleReviewer)
	if !ok {
		return
	}
	reshuffle := r.URL.Query().Get("reshuffle") == "true"
	resp, err := s.review.Handler.ReviewQueueHandler(r.Context(), identity.UserID, identity.IsAdmin(), reshuffle)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireRole(w, r, RoleReviewer)
	if !ok {
		return
	}
	var req reviewhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.review.Handler.CastVoteHandler(
		r.Context(),
		r.PathValue("proposal_id"),
		identity.UserID,
		identity.IsAdmin(),
		req,
	)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.VoteSummaryHandler(r.Context())
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposalVotes(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.review.Handler.ProposalVotesHandler(r.Context(), r.PathValue("proposal_id"))
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStaleVotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	req := reviewhttp.StaleVotesRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.review.Handler.StaleVotesHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveVotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	req := reviewhttp.ResolveVotesRequest{}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.review.Handler.ResolveVotesHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID, req)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotesRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.review.Handler.MarkNotesReadHandler(r.Context(), r.PathValue("proposal_id"), identity.UserID)
	if err != nil {
		writeReviewDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
