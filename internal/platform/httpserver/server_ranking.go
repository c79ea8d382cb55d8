package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	rankingerrors "reviewdesk/contexts/programme/ranking-service/domain/errors"
	rankinghttp "reviewdesk/contexts/programme/ranking-service/transport/http"
)

func writeRankingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rankingerrors.ErrStaleThreshold):
		writeError(w, http.StatusConflict, "stale_threshold", err.Error())
	case errors.Is(err, rankingerrors.ErrInvalidThreshold),
		errors.Is(err, rankingerrors.ErrInvalidRankingInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, rankingerrors.ErrUnauthorizedActor):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleCloseRoundPreview(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req rankinghttp.CloseRoundPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ranking.Handler.CloseRoundPreviewHandler(r.Context(), identity.UserID, req)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseRoundConfirm(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.CloseRoundConfirmHandler(r.Context(), identity.UserID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseRoundCancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := s.ranking.Handler.CloseRoundCancelHandler(r.Context(), identity.UserID); err != nil {
		writeRankingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAcceptancePreview(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	var req rankinghttp.AcceptancePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ranking.Handler.AcceptancePreviewHandler(r.Context(), identity.UserID, req)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptanceConfirm(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.ranking.Handler.AcceptanceConfirmHandler(r.Context(), identity.UserID)
	if err != nil {
		writeRankingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptanceCancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := s.ranking.Handler.AcceptanceCancelHandler(r.Context(), identity.UserID); err != nil {
		writeRankingDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
