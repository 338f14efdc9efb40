package core

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// FatalError marks a condition the watcher cannot recover from. The stack is
// captured where the condition was detected so debug output can show it.
type FatalError struct {
	Op    string
	Err   error
	Stack []byte
}

func NewFatalError(op string, err error) *FatalError {
	return &FatalError{
		Op:    op,
		Err:   err,
		Stack: debug.Stack(),
	}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatalError checks if an error is, or wraps, a FatalError
func IsFatalError(err error) (*FatalError, bool) {
	var fatalErr *FatalError
	if errors.As(err, &fatalErr) {
		return fatalErr, true
	}
	return nil, false
}

// DescribeError renders an error for the operator. Verbose output names the
// concrete type of the underlying cause and includes the captured stack.
func DescribeError(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	if !verbose {
		return err.Error()
	}

	cause := err
	for {
		next := errors.Unwrap(cause)
		if next == nil {
			break
		}
		cause = next
	}

	description := fmt.Sprintf("%T Exception: %v", cause, err)
	if fatalErr, ok := IsFatalError(err); ok && len(fatalErr.Stack) > 0 {
		description += "\n" + string(fatalErr.Stack)
	}
	return description
}
