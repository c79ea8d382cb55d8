package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	proposalservice "reviewdesk/contexts/programme/proposal-service"
	rankingservice "reviewdesk/contexts/programme/ranking-service"
	reviewservice "reviewdesk/contexts/programme/review-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "reviewdesk/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	jwtSecret []byte
	proposals proposalservice.Module
	review    reviewservice.Module
	ranking   rankingservice.Module
}

func New(
	proposals proposalservice.Module,
	review reviewservice.Module,
	ranking rankingservice.Module,
	jwtSecret []byte,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		jwtSecret: jwtSecret,
		proposals: proposals,
		review:    review,
		ranking:   ranking,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /cfp/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/submit", s.handleSubmitProposal)
	s.mux.HandleFunc("GET /cfp/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /cfp/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("PATCH /cfp/proposals/{proposal_id}", s.handleUpdateProposal)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/state", s.handleSetProposalState)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/check", s.handleCheckProposal)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/reject", s.handleRejectProposal)
	s.mux.HandleFunc("GET /cfp/anonymisation/worklist", s.handleAnonymiserWorklist)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/anonymise", s.handleAnonymiseProposal)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/anonymise/block", s.handleBlockAnonymisation)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/messages", s.handleSendMessage)
	s.mux.HandleFunc("GET /cfp/proposals/{proposal_id}/messages", s.handleMessageThread)
	s.mux.HandleFunc("POST /cfp/proposals/{proposal_id}/messages/read", s.handleMarkThreadRead)
	s.mux.HandleFunc("GET /cfp/dashboard", s.handleDashboardCounts)

	s.mux.HandleFunc("GET /cfp/review/queue", s.handleReviewQueue)
	s.mux.HandleFunc("POST /cfp/review/proposals/{proposal_id}/vote", s.handleCastVote)
	s.mux.HandleFunc("GET /cfp/review/votes", s.handleVoteSummary)
	s.mux.HandleFunc("GET /cfp/review/proposals/{proposal_id}/votes", s.handleProposalVotes)
	s.mux.HandleFunc("POST /cfp/review/proposals/{proposal_id}/votes/stale", s.handleStaleVotes)
	s.mux.HandleFunc("POST /cfp/review/proposals/{proposal_id}/votes/resolve", s.handleResolveVotes)
	s.mux.HandleFunc("POST /cfp/review/proposals/{proposal_id}/votes/read", s.handleMarkNotesRead)

	s.mux.HandleFunc("POST /cfp/rounds/close/preview", s.handleCloseRoundPreview)
	s.mux.HandleFunc("POST /cfp/rounds/close/confirm", s.handleCloseRoundConfirm)
	s.mux.HandleFunc("POST /cfp/rounds/close/cancel", s.handleCloseRoundCancel)
	s.mux.HandleFunc("POST /cfp/rank/preview", s.handleAcceptancePreview)
	s.mux.HandleFunc("POST /cfp/rank/confirm", s.handleAcceptanceConfirm)
	s.mux.HandleFunc("POST /cfp/rank/cancel", s.handleAcceptanceCancel)
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorPayload{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
