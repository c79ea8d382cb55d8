package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProposalRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Attendees   string `json:"attendees,omitempty"`
	Cost        string `json:"cost,omitempty"`
	Size        string `json:"size,omitempty"`
	Funds       string `json:"funds,omitempty"`
}

type UpdateProposalRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Requirements   *string `json:"requirements,omitempty"`
	Length         *string `json:"length,omitempty"`
	NoticeRequired *string `json:"notice_required,omitempty"`
	NeedsHelp      *bool   `json:"needs_help,omitempty"`
	NeedsMoney     *bool   `json:"needs_money,omitempty"`
	OneDay         *bool   `json:"one_day,omitempty"`
	Attendees      *string `json:"attendees,omitempty"`
	Cost           *string `json:"cost,omitempty"`
	Size           *string `json:"size,omitempty"`
	Funds          *string `json:"funds,omitempty"`

	// ForceState bypasses the transition graph when present.
	ForceState *string `json:"force_state,omitempty"`
}

type SetStateRequest struct {
	State string `json:"state"`
}

type AnonymiseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProposalResponse struct {
	ProposalID       string `json:"proposal_id"`
	Type             string `json:"type"`
	State            string `json:"state"`
	SubmitterID      string `json:"submitter_id"`
	AnonymiserID     string `json:"anonymiser_id,omitempty"`
	HasRejectedEmail bool   `json:"has_rejected_email"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Requirements     string `json:"requirements,omitempty"`
	Length           string `json:"length,omitempty"`
	NoticeRequired   string `json:"notice_required,omitempty"`
	NeedsHelp        bool   `json:"needs_help"`
	NeedsMoney       bool   `json:"needs_money"`
	OneDay           bool   `json:"one_day"`
	Attendees        string `json:"attendees,omitempty"`
	Cost             string `json:"cost,omitempty"`
	Size             string `json:"size,omitempty"`
	Funds            string `json:"funds,omitempty"`
	NextProposalID   string `json:"next_proposal_id,omitempty"`
}

type ProposalListResponse struct {
	Items []ProposalResponse `json:"items"`
}

type DashboardCountsResponse struct {
	ProposalsByState map[string]int `json:"proposals_by_state"`
	UnreadMessages   int            `json:"unread_messages"`
}

type SendMessageRequest struct {
	Body    string `json:"body"`
	ToAdmin bool   `json:"to_admin"`
}

type MessageResponse struct {
	MessageID   string `json:"message_id"`
	ProposalID  string `json:"proposal_id"`
	FromUserID  string `json:"from_user_id"`
	Body        string `json:"body"`
	IsToAdmin   bool   `json:"is_to_admin"`
	HasBeenRead bool   `json:"has_been_read"`
}

type MessageThreadResponse struct {
	Items []MessageResponse `json:"items"`
}

type MarkReadResponse struct {
	Count int `json:"count"`
}
