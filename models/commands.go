package models

import "github.com/samber/mo"

type CommandKind string

const (
	CommandKindCapture      CommandKind = "capture"
	CommandKindLight        CommandKind = "light"
	CommandKindUnrecognized CommandKind = "unrecognized"
)

type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// Command is what a message asks the watcher to do
type Command struct {
	Kind CommandKind

	// Capture commands
	MediaKind MediaKind
	Recipient mo.Option[string]

	// Light commands
	LightOn bool
}

// RecipientOr returns the explicit recipient, or fallback when the message named none
func (c Command) RecipientOr(fallback string) string {
	return c.Recipient.OrElse(fallback)
}
