package notify

import (
	"context"
	"log/slog"
)

// Notification kinds understood by the outbound mail integration.
const (
	KindNewMessage = "proposal_new_message"
	KindAccepted   = "proposal_accepted"
	KindRejected   = "proposal_rejected"
)

// Notification is the shared envelope handed to the outbound sender.
// Delivery is best-effort: failures are logged by callers and never roll
// back the state transition that produced them.
type Notification struct {
	Kind        string
	RecipientID string
	ProposalID  string
	Subject     string
	Context     map[string]string
}

// LogSender is the default sender used until a real mail integration is
// configured. It records each notification on the structured log.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, notification Notification) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification dispatched",
		"event", "notification_dispatched",
		"module", "internal/shared/notify",
		"layer", "platform",
		"kind", notification.Kind,
		"recipient_id", notification.RecipientID,
		"proposal_id", notification.ProposalID,
	)
	return nil
}
