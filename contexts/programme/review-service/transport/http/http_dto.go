package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueueItemResponse is one entry in a reviewer's working queue.
type QueueItemResponse struct {
	ProposalID string `json:"proposal_id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	IsNew      bool   `json:"is_new"`
}

type ReviewedItemResponse struct {
	ProposalID string    `json:"proposal_id"`
	Title      string    `json:"title"`
	VoteState  string    `json:"vote_state"`
	VoteValue  int       `json:"vote_value"`
	VotedAt    time.Time `json:"voted_at"`
}

type ReviewQueueResponse struct {
	Items    []QueueItemResponse    `json:"items"`
	Reviewed []ReviewedItemResponse `json:"reviewed"`
	Rebuilt  bool                   `json:"rebuilt"`
}

// CastVoteRequest carries one reviewer response. Action is one of vote,
// block, recuse or reopen; value applies to vote only, note is mandatory
// for block and recuse.
type CastVoteRequest struct {
	Action string `json:"action"`
	Value  int    `json:"value"`
	Note   string `json:"note"`
}

type VoteResponse struct {
	VoteID      string    `json:"vote_id"`
	ProposalID  string    `json:"proposal_id"`
	ReviewerID  string    `json:"reviewer_id"`
	State       string    `json:"state"`
	Value       int       `json:"value"`
	Note        string    `json:"note,omitempty"`
	HasBeenRead bool      `json:"has_been_read"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CastVoteResponse struct {
	Vote           VoteResponse `json:"vote"`
	NextProposalID string       `json:"next_proposal_id,omitempty"`
	Remaining      int          `json:"remaining"`
}

type StaleVotesRequest struct {
	IncludeRecused bool `json:"include_recused"`
}

type ResolveVotesRequest struct {
	VoteIDs []string `json:"vote_ids,omitempty"`
}

type BulkVoteResponse struct {
	Count int `json:"count"`
}

type ProposalVoteSummaryResponse struct {
	ProposalID  string         `json:"proposal_id"`
	Title       string         `json:"title"`
	StateCounts map[string]int `json:"state_counts"`
	UnreadNotes int            `json:"unread_notes"`
}

type VoteSummaryListResponse struct {
	Items []ProposalVoteSummaryResponse `json:"items"`
}

type ProposalVotesResponse struct {
	Items []VoteResponse `json:"items"`
}
