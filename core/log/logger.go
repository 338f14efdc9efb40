package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelDisabled sits above every slog level so nothing is emitted
const levelDisabled = slog.Level(1000)

var (
	logger *slog.Logger
	writer io.Writer = os.Stderr
	level            = levelDisabled
)

func init() {
	rebuild()
}

func rebuild() {
	logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
}

func Info(format string, args ...any) {
	logger.Info(fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}

func SetLevel(l slog.Level) {
	level = l
	rebuild()
}

func SetWriter(w io.Writer) {
	writer = w
	rebuild()
}

// Disable turns logging off entirely, which is the default state
func Disable() {
	SetLevel(levelDisabled)
}

func Enabled(l slog.Level) bool {
	return l >= level
}
