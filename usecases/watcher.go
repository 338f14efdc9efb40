package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"

	"requestdepot/clients"
	"requestdepot/core"
	"requestdepot/core/log"
	"requestdepot/models"
	"requestdepot/services"
	"requestdepot/services/cursor"
	"requestdepot/utils"
)

// Dispatcher decides and performs the action for one message
type Dispatcher interface {
	Dispatch(ctx context.Context, msg models.Message) (mo.Option[models.ActionResult], error)
}

// WatcherUseCase is the poll loop: fetch unseen messages, handle them oldest
// first, sleep when there is nothing new
type WatcherUseCase struct {
	messagingClient clients.MessagingClient
	dispatcher      Dispatcher
	replyService    *services.ReplyService
	cursor          *cursor.Tracker
	sleepCycle      time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

func NewWatcherUseCase(
	messagingClient clients.MessagingClient,
	dispatcher Dispatcher,
	replyService *services.ReplyService,
	cursorTracker *cursor.Tracker,
	sleepCycle time.Duration,
) *WatcherUseCase {
	return &WatcherUseCase{
		messagingClient: messagingClient,
		dispatcher:      dispatcher,
		replyService:    replyService,
		cursor:          cursorTracker,
		sleepCycle:      sleepCycle,
		sleep:           utils.SleepContext,
	}
}

// Run polls forever. It returns a fatal error, or nil once ctx is cancelled
// by process termination.
func (w *WatcherUseCase) Run(ctx context.Context) error {
	log.Info("🔁 Entering forever loop of checking for new messages and acting on them")
	for {
		processed, err := w.PollOnce(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				log.Info("🔌 Shutdown requested, leaving poll loop")
				return nil
			}
			return err
		}

		if processed > 0 {
			continue
		}

		log.Info("📭 No new messages. Sleeping for %v...", w.sleepCycle)
		if err := w.sleep(ctx, w.sleepCycle); err != nil {
			log.Info("🔌 Shutdown requested, leaving poll loop")
			return nil
		}
	}
}

// PollOnce fetches messages newer than the cursor and handles them in the
// order they were sent. The cursor moves past each message as soon as it has
// been dispatched, whatever the outcome. It returns how many messages the
// batch held.
func (w *WatcherUseCase) PollOnce(ctx context.Context) (int, error) {
	log.Debug("Checking for new messages since %s", w.cursor.Current())
	messages, err := w.messagingClient.GetDirectMessages(ctx, mo.Some(w.cursor.Current()), 0)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, core.NewFatalError("get direct messages", err)
	}

	oldestFirst := slices.Clone(messages)
	slices.Reverse(oldestFirst)

	for _, msg := range oldestFirst {
		log.Info("📨 %s", msg)
		if err := w.handle(ctx, msg); err != nil {
			return 0, err
		}
	}

	return len(messages), nil
}

func (w *WatcherUseCase) handle(ctx context.Context, msg models.Message) error {
	result, err := w.dispatcher.Dispatch(ctx, msg)
	w.cursor.Advance(msg.ID)
	if err != nil {
		return fmt.Errorf("failed to dispatch message %s: %w", msg.ID, err)
	}

	actionResult, ok := result.Get()
	if !ok {
		return nil
	}

	if err := w.replyService.Reply(ctx, msg, actionResult); err != nil {
		return core.NewFatalError("reply", err)
	}
	return nil
}
