package clients

import (
	"slices"

	"requestdepot/models"
)

// NewestFirst orders messages gathered from several DM channels the way the
// provider orders a single stream, newest first, keeping at most count of
// them. A count of zero keeps everything.
func NewestFirst(messages []models.Message, count int) []models.Message {
	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(a, b models.Message) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	if count > 0 && len(sorted) > count {
		sorted = sorted[:count]
	}
	return sorted
}
