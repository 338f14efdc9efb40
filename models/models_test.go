package models

import (
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
)

func TestActionResult_ReplyText(t *testing.T) {
	tests := []struct {
		name     string
		result   ActionResult
		original string
		expected string
	}{
		{"completed", Completed(), "take photo", "Received and Completed: take photo"},
		{"failed keeps original casing", Failed("exit 1"), "Take Video a@b.com", "Received and Failed: Take Video a@b.com"},
		{"hint ignores original", Hint(), "do a backflip", HintText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.ReplyText(tt.original))
		})
	}
}

func TestWatcherState(t *testing.T) {
	state := NewWatcherState(
		Account{ID: "BOT"},
		[]Contact{{ID: "U1", DisplayName: "Ed"}, {ID: "U2", DisplayName: "Sam"}},
		42,
	)

	assert.True(t, state.IsAuthorized("U1"))
	assert.True(t, state.IsAuthorized("U2"))
	assert.False(t, state.IsAuthorized("U3"))
	assert.False(t, state.IsAuthorized(""))
	assert.True(t, state.IsSelf("BOT"))
	assert.False(t, state.IsSelf(""))
	assert.Equal(t, MessageID(42), state.Anchor)
}

func TestCommand_RecipientOr(t *testing.T) {
	explicit := Command{Kind: CommandKindCapture, Recipient: mo.Some("x@y.com")}
	implicit := Command{Kind: CommandKindCapture, Recipient: mo.None[string]()}

	assert.Equal(t, "x@y.com", explicit.RecipientOr("default@home"))
	assert.Equal(t, "default@home", implicit.RecipientOr("default@home"))
}
