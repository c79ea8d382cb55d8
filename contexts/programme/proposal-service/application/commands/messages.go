package commands

import (
	"context"
	"log/slog"
	"strings"

	application "reviewdesk/contexts/programme/proposal-service/application"
	"reviewdesk/contexts/programme/proposal-service/domain/entities"
	domainerrors "reviewdesk/contexts/programme/proposal-service/domain/errors"
	"reviewdesk/contexts/programme/proposal-service/ports"
	"reviewdesk/internal/shared/notify"
)

type SendMessageCommand struct {
	ProposalID string
	FromUserID string
	Body       string

	// ToAdmin is set when a proposer writes to the administrators; admin
	// replies leave it false and trigger a best-effort notification to the
	// proposer.
	ToAdmin bool
}

type SendMessageUseCase struct {
	Proposals ports.ProposalRepository
	Messages  ports.MessageRepository
	Notifier  ports.Notifier
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc SendMessageUseCase) Execute(ctx context.Context, cmd SendMessageCommand) (entities.Message, error) {
	logger := application.ResolveLogger(uc.Logger)
	proposal, err := uc.Proposals.GetProposal(ctx, strings.TrimSpace(cmd.ProposalID))
	if err != nil {
		return entities.Message{}, err
	}

	message := entities.Message{
		ProposalID: proposal.ProposalID,
		FromUserID: strings.TrimSpace(cmd.FromUserID),
		Body:       strings.TrimSpace(cmd.Body),
		IsToAdmin:  cmd.ToAdmin,
	}
	if !message.ValidateCreate() {
		return entities.Message{}, domainerrors.ErrInvalidMessageInput
	}

	messageID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Message{}, err
	}
	message.MessageID = messageID
	message.CreatedAt = uc.Clock.Now().UTC()
	if err := uc.Messages.SaveMessage(ctx, message); err != nil {
		return entities.Message{}, err
	}

	logger.Info("proposal message sent",
		"event", "proposal_message_sent",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", proposal.ProposalID,
		"to_admin", cmd.ToAdmin,
	)

	if !cmd.ToAdmin && uc.Notifier != nil {
		err := uc.Notifier.Send(ctx, notify.Notification{
			Kind:        notify.KindNewMessage,
			RecipientID: proposal.SubmitterID,
			ProposalID:  proposal.ProposalID,
			Subject:     "New message about your proposal",
		})
		if err != nil {
			// Best-effort: never roll back the message for a failed send.
			logger.Error("message notification failed",
				"event", "notification_send_failed",
				"module", "programme/proposal-service",
				"layer", "application",
				"proposal_id", proposal.ProposalID,
				"error", err.Error(),
			)
		}
	}
	return message, nil
}

// MarkThreadRead marks one side of a proposal thread as read and returns
// how many messages were affected.
func (uc SendMessageUseCase) MarkThreadRead(ctx context.Context, proposalID string, toAdmin bool) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	count, err := uc.Messages.MarkMessagesRead(ctx, strings.TrimSpace(proposalID), toAdmin)
	if err != nil {
		return 0, err
	}
	logger.Info("proposal messages marked read",
		"event", "proposal_messages_marked_read",
		"module", "programme/proposal-service",
		"layer", "application",
		"proposal_id", strings.TrimSpace(proposalID),
		"count", count,
	)
	return count, nil
}
