package clients

import (
	"errors"
	"fmt"
)

// ErrCaptureStartErr means the capture tool could not be started at all
type ErrCaptureStartErr struct {
	Err      error
	ToolPath string
}

func (e *ErrCaptureStartErr) Error() string {
	return fmt.Sprintf("capture tool %s could not be started: %v", e.ToolPath, e.Err)
}

func (e *ErrCaptureStartErr) Unwrap() error {
	return e.Err
}

// IsCaptureStartErr checks if an error is a capture start error
func IsCaptureStartErr(err error) (*ErrCaptureStartErr, bool) {
	var startErr *ErrCaptureStartErr
	if errors.As(err, &startErr) {
		return startErr, true
	}
	return nil, false
}

// ErrUnknownProvider is returned when the configured messaging provider has no client
var ErrUnknownProvider = errors.New("unknown messaging provider")
