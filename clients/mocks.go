package clients

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"requestdepot/models"
)

// MockMessagingClient implements MessagingClient for testing
type MockMessagingClient struct {
	mock.Mock
}

func (m *MockMessagingClient) Authenticate(ctx context.Context) (*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockMessagingClient) GetContacts(ctx context.Context) ([]models.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contact), args.Error(1)
}

func (m *MockMessagingClient) GetDirectMessages(
	ctx context.Context,
	since mo.Option[models.MessageID],
	count int,
) ([]models.Message, error) {
	args := m.Called(ctx, since, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessagingClient) PostDirectMessage(ctx context.Context, recipientID, text string) error {
	args := m.Called(ctx, recipientID, text)
	return args.Error(0)
}

// MockCaptureClient implements CaptureClient for testing
type MockCaptureClient struct {
	mock.Mock
}

func (m *MockCaptureClient) Capture(
	ctx context.Context,
	kind models.MediaKind,
	recipientEmail string,
) (*CaptureResult, error) {
	args := m.Called(ctx, kind, recipientEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CaptureResult), args.Error(1)
}

// MockLightClient implements LightClient for testing
type MockLightClient struct {
	mock.Mock
}

func (m *MockLightClient) SetLight(on bool) error {
	args := m.Called(on)
	return args.Error(0)
}
