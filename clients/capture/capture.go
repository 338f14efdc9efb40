package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"requestdepot/clients"
	"requestdepot/core/log"
	"requestdepot/models"
)

// CaptureClient shells out to the snap-and-tell tool, which takes a photo or
// video and emails it
type CaptureClient struct {
	toolPath string
}

func NewCaptureClient(toolPath string) *CaptureClient {
	return &CaptureClient{
		toolPath: toolPath,
	}
}

// Capture runs `<tool> --light <kind> <recipient>` and waits for it. There is
// no timeout: a hung tool blocks the caller until ctx is cancelled.
func (c *CaptureClient) Capture(
	ctx context.Context,
	kind models.MediaKind,
	recipientEmail string,
) (*clients.CaptureResult, error) {
	log.Info("📋 Starting to capture %s for %s", kind, recipientEmail)
	args := []string{"--light", string(kind), recipientEmail}
	log.Debug("Command arguments: %v", args)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.toolPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &clients.CaptureResult{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			log.Error("❌ Capture tool %s could not be started: %v", c.toolPath, err)
			return nil, &clients.ErrCaptureStartErr{Err: err, ToolPath: c.toolPath}
		}
		result.ExitCode = exitErr.ExitCode()
		log.Info("❌ Capture tool exited with code %d", result.ExitCode)
		return result, nil
	}

	log.Info("📋 Completed successfully - captured %s", kind)
	return result, nil
}

func (c *CaptureClient) ToolPath() string {
	return c.toolPath
}

// Describe renders a capture result for the log
func Describe(result *clients.CaptureResult) string {
	if result == nil {
		return ""
	}
	return fmt.Sprintf("%d, %s, %s", result.ExitCode, result.Stdout, result.Stderr)
}
