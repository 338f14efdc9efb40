package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"requestdepot/clients"
	"requestdepot/clients/capture"
	"requestdepot/core"
	"requestdepot/core/log"
	"requestdepot/models"
	"requestdepot/services"
)

type DispatchUseCase struct {
	state            *models.WatcherState
	commandService   *services.CommandService
	captureClient    clients.CaptureClient
	lightClient      clients.LightClient
	defaultRecipient string
}

func NewDispatchUseCase(
	state *models.WatcherState,
	commandService *services.CommandService,
	captureClient clients.CaptureClient,
	lightClient clients.LightClient,
	defaultRecipient string,
) *DispatchUseCase {
	return &DispatchUseCase{
		state:            state,
		commandService:   commandService,
		captureClient:    captureClient,
		lightClient:      lightClient,
		defaultRecipient: defaultRecipient,
	}
}

// Dispatch runs the action a message asks for. It returns None when the
// message must not be answered: it came from the watcher itself or from a
// sender outside the allowlist. An error means the watcher cannot continue.
func (d *DispatchUseCase) Dispatch(ctx context.Context, msg models.Message) (mo.Option[models.ActionResult], error) {
	if d.state.IsSelf(msg.SenderID) {
		log.Debug("Skipping own message %s", msg.ID)
		return mo.None[models.ActionResult](), nil
	}

	if !d.state.IsAuthorized(msg.SenderID) {
		log.Info("🚫 Ignoring message from unauthorized sender: %s", msg.SenderID)
		return mo.None[models.ActionResult](), nil
	}

	dispatchID := core.NewID("dsp")
	command := d.commandService.Classify(msg.Text)
	log.Info("📨 [%s] Message %s from %s classified as %s", dispatchID, msg.ID, msg.SenderID, command.Kind)

	var (
		result models.ActionResult
		err    error
	)
	switch command.Kind {
	case models.CommandKindCapture:
		result, err = d.handleCapture(ctx, msg, command)
	case models.CommandKindLight:
		result, err = d.handleLight(command)
	default:
		result = models.Hint()
	}
	if err != nil {
		return mo.None[models.ActionResult](), err
	}

	if started, ok := core.IDTime(dispatchID); ok {
		log.Info("📋 [%s] Completed in %v - %s", dispatchID, time.Since(started).Round(time.Millisecond), result.Outcome)
	}
	return mo.Some(result), nil
}

func (d *DispatchUseCase) handleCapture(
	ctx context.Context,
	msg models.Message,
	command models.Command,
) (models.ActionResult, error) {
	recipient := command.RecipientOr(d.defaultRecipient)

	captureResult, err := d.captureClient.Capture(ctx, command.MediaKind, recipient)
	if err != nil {
		if startErr, ok := clients.IsCaptureStartErr(err); ok {
			diagnostics := fmt.Sprintf("-1, , %v", startErr.Err)
			log.Info("%s: %s", msg.Text, diagnostics)
			return models.Failed(diagnostics), nil
		}
		return models.ActionResult{}, core.NewFatalError("capture", err)
	}

	if !captureResult.Succeeded() {
		diagnostics := capture.Describe(captureResult)
		log.Info("%s: %s", msg.Text, diagnostics)
		return models.Failed(diagnostics), nil
	}

	return models.Completed(), nil
}

func (d *DispatchUseCase) handleLight(command models.Command) (models.ActionResult, error) {
	if err := d.lightClient.SetLight(command.LightOn); err != nil {
		return models.ActionResult{}, core.NewFatalError("set light", err)
	}
	return models.Completed(), nil
}
