package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofrs/flock"
)

var unsafeLockChars = regexp.MustCompile(`[^\w\-.]`)

// InstanceLock guarantees a single running watcher per host and program name
type InstanceLock struct {
	lockFile *flock.Flock
	lockPath string
}

// sanitizeLockName turns a program name into a safe lock file name
func sanitizeLockName(name string) string {
	sanitized := strings.ReplaceAll(name, "/", "--")
	sanitized = strings.ReplaceAll(sanitized, "\\", "--")
	sanitized = unsafeLockChars.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, ".-")
	if sanitized == "" {
		sanitized = "default"
	}
	return sanitized
}

// NewInstanceLock prepares a lock file under <dir>/requestdepot. An empty dir
// means the system temp directory.
func NewInstanceLock(dir, name string) (*InstanceLock, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	lockDir := filepath.Join(dir, "requestdepot")
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lockPath := filepath.Join(lockDir, sanitizeLockName(name)+".lock")
	return &InstanceLock{
		lockFile: flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// TryLock acquires the lock without blocking. The lock is held until Unlock
// or process exit.
func (l *InstanceLock) TryLock() error {
	locked, err := l.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to try lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance is already running (lock %s)", l.lockPath)
	}

	return nil
}

func (l *InstanceLock) Unlock() error {
	if l.lockFile == nil {
		return nil
	}

	if err := l.lockFile.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock: %w", err)
	}

	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	return nil
}

func (l *InstanceLock) Path() string {
	return l.lockPath
}
