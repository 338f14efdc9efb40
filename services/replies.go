package services

import (
	"context"
	"fmt"

	"requestdepot/clients"
	"requestdepot/core/log"
	"requestdepot/models"
)

// ReplyService answers the sender of a handled message
type ReplyService struct {
	messagingClient clients.MessagingClient
}

func NewReplyService(messagingClient clients.MessagingClient) *ReplyService {
	return &ReplyService{
		messagingClient: messagingClient,
	}
}

func (s *ReplyService) Reply(ctx context.Context, msg models.Message, result models.ActionResult) error {
	text := result.ReplyText(msg.Text)
	log.Info("💬 Replying to %s (%s)", msg.SenderID, result.Outcome)

	if err := s.messagingClient.PostDirectMessage(ctx, msg.SenderID, text); err != nil {
		return fmt.Errorf("failed to reply to message %s: %w", msg.ID, err)
	}
	return nil
}
