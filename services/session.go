package services

import (
	"context"
	"fmt"
	"io"

	"github.com/samber/mo"

	"requestdepot/clients"
	"requestdepot/core"
	"requestdepot/core/log"
	"requestdepot/models"
)

// SessionService establishes the provider session and derives the watcher state from it
type SessionService struct {
	messagingClient clients.MessagingClient
	// out receives the operator-facing contact listing
	out io.Writer
}

func NewSessionService(messagingClient clients.MessagingClient, out io.Writer) *SessionService {
	return &SessionService{
		messagingClient: messagingClient,
		out:             out,
	}
}

// Bootstrap authenticates, loads the authorized senders and anchors the cursor
// at the newest message visible now. Any failure is fatal.
func (s *SessionService) Bootstrap(ctx context.Context) (*models.WatcherState, error) {
	log.Info("📋 Starting to bootstrap messaging session")

	account, err := s.messagingClient.Authenticate(ctx)
	if err != nil {
		return nil, core.NewFatalError("authenticate", err)
	}

	fmt.Fprintln(s.out, "Getting list of authorized senders (contacts).")
	contacts, err := s.messagingClient.GetContacts(ctx)
	if err != nil {
		return nil, core.NewFatalError("get contacts", err)
	}
	for _, contact := range contacts {
		fmt.Fprintf(s.out, "Friend: %s %s %s\n", contact.DisplayName, contact.ID, contact.Handle)
		log.Info("👤 Authorized sender: %s %s %s", contact.DisplayName, contact.ID, contact.Handle)
	}
	if len(contacts) == 0 {
		log.Warn("⚠️ No authorized senders found - every message will be ignored")
	}

	anchor, err := s.AnchorCursor(ctx)
	if err != nil {
		return nil, core.NewFatalError("anchor cursor", err)
	}

	log.Info("📋 Completed successfully - bootstrapped session as %s with %d authorized senders, cursor at %s",
		account.Handle, len(contacts), anchor)
	return models.NewWatcherState(*account, contacts, anchor), nil
}

// AnchorCursor returns the id of the newest message, or 0 for an empty inbox
func (s *SessionService) AnchorCursor(ctx context.Context) (models.MessageID, error) {
	latest, err := s.messagingClient.GetDirectMessages(ctx, mo.None[models.MessageID](), 1)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest direct message: %w", err)
	}
	if len(latest) == 0 {
		log.Info("📭 Inbox is empty, anchoring cursor at 0")
		return 0, nil
	}
	return latest[0].ID, nil
}
