package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"requestdepot/clients"
	"requestdepot/core"
	"requestdepot/models"
	"requestdepot/services"
	"requestdepot/services/cursor"
)

// MockDispatcher implements Dispatcher for testing
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, msg models.Message) (mo.Option[models.ActionResult], error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(mo.Option[models.ActionResult]), args.Error(1)
}

func since(id models.MessageID) mo.Option[models.MessageID] {
	return mo.Some(id)
}

func newTestWatcher(
	messaging clients.MessagingClient,
	dispatcher Dispatcher,
	anchor models.MessageID,
) (*WatcherUseCase, *cursor.Tracker) {
	tracker := cursor.NewTracker(anchor)
	watcher := NewWatcherUseCase(messaging, dispatcher, services.NewReplyService(messaging), tracker, 30*time.Second)
	return watcher, tracker
}

type dispatchFunc func(ctx context.Context, msg models.Message) (mo.Option[models.ActionResult], error)

func (f dispatchFunc) Dispatch(ctx context.Context, msg models.Message) (mo.Option[models.ActionResult], error) {
	return f(ctx, msg)
}

func TestWatcherUseCase_PollOnceHandlesOldestFirst(t *testing.T) {
	ctx := context.Background()
	messaging := &clients.MockMessagingClient{}

	// provider order is newest first
	batch := []models.Message{
		{ID: 7, SenderID: "U1", Text: "light off"},
		{ID: 6, SenderID: "U1", Text: "take video"},
		{ID: 5, SenderID: "U1", Text: "take photo"},
	}
	messaging.On("GetDirectMessages", ctx, since(4), 0).Return(batch, nil)
	messaging.On("PostDirectMessage", ctx, "U1", mock.Anything).Return(nil)

	var order []models.MessageID
	var tracker *cursor.Tracker
	var cursorAtDispatch []models.MessageID
	dispatcher := dispatchFunc(func(_ context.Context, msg models.Message) (mo.Option[models.ActionResult], error) {
		order = append(order, msg.ID)
		cursorAtDispatch = append(cursorAtDispatch, tracker.Current())
		if msg.ID == 6 {
			return mo.Some(models.Failed("1, , busy")), nil
		}
		return mo.Some(models.Completed()), nil
	})

	var watcher *WatcherUseCase
	watcher, tracker = newTestWatcher(messaging, dispatcher, 4)

	processed, err := watcher.PollOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	assert.Equal(t, []models.MessageID{5, 6, 7}, order)
	assert.Equal(t, []models.MessageID{4, 5, 6}, cursorAtDispatch)
	assert.Equal(t, models.MessageID(7), tracker.Current(), "cursor ends on the newest id whatever the outcomes")

	var replies []string
	for _, call := range messaging.Calls {
		if call.Method == "PostDirectMessage" {
			replies = append(replies, call.Arguments.String(2))
		}
	}
	assert.Equal(t, []string{
		"Received and Completed: take photo",
		"Received and Failed: take video",
		"Received and Completed: light off",
	}, replies)
}

func TestWatcherUseCase_NoReplyWhenDispatchReturnsNone(t *testing.T) {
	ctx := context.Background()
	messaging := &clients.MockMessagingClient{}
	dispatcher := &MockDispatcher{}
	messaging.On("GetDirectMessages", ctx, since(0), 0).Return([]models.Message{{ID: 1, SenderID: "U666", Text: "light on"}}, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return(mo.None[models.ActionResult](), nil)

	watcher, tracker := newTestWatcher(messaging, dispatcher, 0)
	_, err := watcher.PollOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, models.MessageID(1), tracker.Current())
	messaging.AssertNotCalled(t, "PostDirectMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestWatcherUseCase_DispatchErrorStopsBatchAfterAdvancingCursor(t *testing.T) {
	ctx := context.Background()
	messaging := &clients.MockMessagingClient{}
	dispatcher := &MockDispatcher{}
	messaging.On("GetDirectMessages", ctx, since(10), 0).Return([]models.Message{
		{ID: 12, SenderID: "U1", Text: "light off"},
		{ID: 11, SenderID: "U1", Text: "light on"},
	}, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything).Return(mo.None[models.ActionResult](), core.NewFatalError("set light", errors.New("no gpio")))

	watcher, tracker := newTestWatcher(messaging, dispatcher, 10)
	_, err := watcher.PollOnce(ctx)

	require.Error(t, err)
	_, ok := core.IsFatalError(err)
	assert.True(t, ok)
	assert.Equal(t, models.MessageID(11), tracker.Current())
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestWatcherUseCase_ProviderErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	messaging := &clients.MockMessagingClient{}
	messaging.On("GetDirectMessages", ctx, since(3), 0).Return(nil, errors.New("connection reset"))

	watcher, _ := newTestWatcher(messaging, &MockDispatcher{}, 3)
	err := watcher.Run(ctx)

	require.Error(t, err)
	fatalErr, ok := core.IsFatalError(err)
	require.True(t, ok)
	assert.Equal(t, "get direct messages", fatalErr.Op)
}

func TestWatcherUseCase_ReplyErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	messaging := &clients.MockMessagingClient{}
	dispatcher := &MockDispatcher{}
	messaging.On("GetDirectMessages", ctx, since(0), 0).Return([]models.Message{{ID: 1, SenderID: "U1", Text: "hi"}}, nil)
	messaging.On("PostDirectMessage", ctx, "U1", models.HintText).Return(errors.New("channel_not_found"))
	dispatcher.On("Dispatch", ctx, mock.Anything).Return(mo.Some(models.Hint()), nil)

	watcher, _ := newTestWatcher(messaging, dispatcher, 0)
	_, err := watcher.PollOnce(ctx)

	fatalErr, ok := core.IsFatalError(err)
	require.True(t, ok)
	assert.Equal(t, "reply", fatalErr.Op)
}

func TestWatcherUseCase_RunSleepsWhenIdleAndDoesNotRedispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messaging := &clients.MockMessagingClient{}
	dispatcher := &MockDispatcher{}

	messaging.On("GetDirectMessages", mock.Anything, since(8), 0).
		Return([]models.Message{{ID: 9, SenderID: "U1", Text: "light on"}}, nil).Once()
	messaging.On("GetDirectMessages", mock.Anything, since(9), 0).
		Return([]models.Message{}, nil)
	messaging.On("PostDirectMessage", mock.Anything, "U1", "Received and Completed: light on").Return(nil).Once()
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(mo.Some(models.Completed()), nil).Once()

	watcher, tracker := newTestWatcher(messaging, dispatcher, 8)
	var sleeps []time.Duration
	watcher.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		if len(sleeps) == 2 {
			cancel()
			return ctx.Err()
		}
		return nil
	}

	err := watcher.Run(ctx)

	require.NoError(t, err, "cancellation ends the loop cleanly")
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, sleeps)
	assert.Equal(t, models.MessageID(9), tracker.Current())
	dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
	messaging.AssertNumberOfCalls(t, "GetDirectMessages", 3)
}

func TestWatcherUseCase_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newDispatchFixture(t)
	messaging := &clients.MockMessagingClient{}

	messaging.On("GetDirectMessages", ctx, since(100), 0).Return([]models.Message{
		{ID: 104, SenderID: "U666", Text: "light on"},
		{ID: 103, SenderID: "U1", Text: "do a backflip"},
		{ID: 102, SenderID: "U1", Text: "light off"},
		{ID: 101, SenderID: "U1", Text: "take photo"},
	}, nil)
	messaging.On("PostDirectMessage", ctx, "U1", mock.Anything).Return(nil)
	f.capture.On("Capture", ctx, models.MediaKindPhoto, defaultRecipient).Return(&clients.CaptureResult{ExitCode: 0}, nil)
	f.light.On("SetLight", false).Return(nil)

	watcher, tracker := newTestWatcher(messaging, f.useCase, 100)
	processed, err := watcher.PollOnce(ctx)

	require.NoError(t, err)
	assert.Equal(t, 4, processed)
	assert.Equal(t, models.MessageID(104), tracker.Current())
	messaging.AssertCalled(t, "PostDirectMessage", ctx, "U1", "Received and Completed: take photo")
	messaging.AssertCalled(t, "PostDirectMessage", ctx, "U1", "Received and Completed: light off")
	messaging.AssertCalled(t, "PostDirectMessage", ctx, "U1", models.HintText)
	messaging.AssertNumberOfCalls(t, "PostDirectMessage", 3)
	f.light.AssertNotCalled(t, "SetLight", true)
	f.capture.AssertNumberOfCalls(t, "Capture", 1)
	assert.Contains(t, f.logLines.String(), "Ignoring message from unauthorized sender: U666")
}
