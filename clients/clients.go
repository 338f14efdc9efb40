package clients

import (
	"context"

	"requestdepot/models"

	"github.com/samber/mo"
)

// MessagingClient is the direct-message provider the watcher polls
type MessagingClient interface {
	// Authenticate verifies the credentials and returns the watcher's own account
	Authenticate(ctx context.Context) (*models.Account, error)

	// GetContacts returns the operator's contact list
	GetContacts(ctx context.Context) ([]models.Contact, error)

	// GetDirectMessages returns messages newer than since, newest first.
	// A count of zero means the provider's default page size.
	GetDirectMessages(ctx context.Context, since mo.Option[models.MessageID], count int) ([]models.Message, error)

	// PostDirectMessage sends text to the user identified by recipientID
	PostDirectMessage(ctx context.Context, recipientID, text string) error
}

// CaptureResult is what the external capture tool reported
type CaptureResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (r CaptureResult) Succeeded() bool {
	return r.ExitCode == 0
}

// CaptureClient runs the external photo/video capture tool
type CaptureClient interface {
	Capture(ctx context.Context, kind models.MediaKind, recipientEmail string) (*CaptureResult, error)
}

// LightClient drives the light's output line
type LightClient interface {
	SetLight(on bool) error
}
