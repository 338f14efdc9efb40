package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"requestdepot/core/log"
)

const (
	debugOff     = 0
	debugConsole = 1
	debugFile    = 2
	debugVerbose = 9
)

// programLogging describes where the logs of this run go
type programLogging struct {
	filePath string
	closer   io.Closer
}

func (p *programLogging) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// setupProgramLogging applies the --debug level. Level 0 leaves logging
// disabled. Levels 2 and 9 write to ~/.config/requestdepot/logs under homeDir.
func setupProgramLogging(debugLevel int, homeDir string, console io.Writer) (*programLogging, error) {
	switch debugLevel {
	case debugOff:
		log.Disable()
		return &programLogging{}, nil
	case debugConsole:
		log.SetWriter(console)
		log.SetLevel(slog.LevelInfo)
		return &programLogging{}, nil
	}

	logsDir := filepath.Join(homeDir, ".config", "requestdepot", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	logFilePath := filepath.Join(logsDir, fmt.Sprintf("%s.log", timestamp))

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetWriter(logFile)
	if debugLevel == debugVerbose {
		log.SetLevel(slog.LevelDebug)
	} else {
		log.SetLevel(slog.LevelInfo)
	}

	return &programLogging{filePath: logFilePath, closer: logFile}, nil
}
