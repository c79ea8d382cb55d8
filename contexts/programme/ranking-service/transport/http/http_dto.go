package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RoundCandidateResponse struct {
	ProposalID string `json:"proposal_id"`
	Title      string `json:"title"`
	State      string `json:"state"`
	VotedCount int    `json:"voted_count"`
}

type CloseRoundPreviewRequest struct {
	MinVotes int `json:"min_votes"`
}

type CloseRoundPreviewResponse struct {
	Candidates []RoundCandidateResponse `json:"candidates"`
	MinVotes   int                      `json:"min_votes"`
	WouldClose int                      `json:"would_close"`
	ExpiresAt  time.Time                `json:"expires_at"`
}

type CloseRoundConfirmResponse struct {
	Closed   int `json:"closed"`
	MinVotes int `json:"min_votes"`
}

type ScoredProposalResponse struct {
	ProposalID string  `json:"proposal_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
}

type AcceptancePreviewRequest struct {
	MinScore float64 `json:"min_score"`
}

type AcceptancePreviewResponse struct {
	Ranked      []ScoredProposalResponse `json:"ranked"`
	MinScore    float64                  `json:"min_score"`
	WouldAccept int                      `json:"would_accept"`
	ExpiresAt   time.Time                `json:"expires_at"`
}

type AcceptanceConfirmResponse struct {
	Accepted         int     `json:"accepted"`
	RejectionNotices int     `json:"rejection_notices"`
	MinScore         float64 `json:"min_score"`
}
