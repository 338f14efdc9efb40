package cursor

import (
	"fmt"

	"requestdepot/models"
	"requestdepot/utils"
)

// Tracker remembers the newest processed message id so polls only return
// unseen messages. It lives in memory only; a restart re-anchors to the
// newest message at startup.
type Tracker struct {
	current models.MessageID
}

func NewTracker(anchor models.MessageID) *Tracker {
	return &Tracker{
		current: anchor,
	}
}

// Advance moves the cursor to id. Moving backwards is a programming error.
func (t *Tracker) Advance(id models.MessageID) {
	utils.AssertInvariant(id >= t.current, fmt.Sprintf("cursor cannot move from %s back to %s", t.current, id))
	t.current = id
}

func (t *Tracker) Current() models.MessageID {
	return t.current
}
