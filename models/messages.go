package models

import (
	"fmt"
	"strconv"
)

// MessageID orders messages within the provider stream. Larger is newer.
type MessageID uint64

func (id MessageID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Message is a direct message received by the watcher
type Message struct {
	ID        MessageID
	SenderID  string
	ChannelID string
	Text      string
}

func (m Message) String() string {
	return fmt.Sprintf("%s from %s: %q", m.ID, m.SenderID, m.Text)
}

// Contact is an entry in the operator's contact list. Contacts are the
// authorized senders.
type Contact struct {
	ID          string
	DisplayName string
	Handle      string
}

// Account is the identity the watcher authenticated as
type Account struct {
	ID     string
	Handle string
}
