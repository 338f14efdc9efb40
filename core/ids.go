package core

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"requestdepot/utils"

	"github.com/lucasepe/codename"
	"github.com/oklog/ulid/v2"
)

// NewID generates a new ULID with the given prefix, e.g. "run_01G0EZ1XTM37C5X11SQTDNCTM1".
// Run and dispatch ids only correlate log lines, so math/rand entropy is enough.
func NewID(prefix string) string {
	utils.AssertInvariant(strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		panic(err)
	}

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// IDTime returns the creation time embedded in an id produced by NewID
func IDTime(id string) (time.Time, bool) {
	_, ulidPart, found := strings.Cut(id, "_")
	if !found {
		return time.Time{}, false
	}
	parsed, err := ulid.Parse(ulidPart)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(parsed.Time()), true
}

// NewRunName returns a readable name such as "fluent-grizzly" so operators can
// tell runs apart in the console and in log files
func NewRunName() (string, error) {
	rng, err := codename.DefaultRNG()
	if err != nil {
		return "", fmt.Errorf("failed to seed run name generator: %w", err)
	}
	return codename.Generate(rng, 0), nil
}
