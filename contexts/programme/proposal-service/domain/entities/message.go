package entities

import (
	"strings"
	"time"
)

// Message is one entry in the thread between a proposer and the
// administrators about a single proposal.
type Message struct {
	MessageID   string
	ProposalID  string
	FromUserID  string
	Body        string
	IsToAdmin   bool
	HasBeenRead bool
	CreatedAt   time.Time
}

func (m Message) ValidateCreate() bool {
	return strings.TrimSpace(m.ProposalID) != "" &&
		strings.TrimSpace(m.FromUserID) != "" &&
		strings.TrimSpace(m.Body) != ""
}
