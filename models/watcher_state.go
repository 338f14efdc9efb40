package models

// WatcherState is the session-derived state the poll loop works with
type WatcherState struct {
	Self              Account
	AuthorizedSenders map[string]Contact
	// Anchor is the newest message id visible at startup
	Anchor MessageID
}

func NewWatcherState(self Account, contacts []Contact, anchor MessageID) *WatcherState {
	authorized := make(map[string]Contact, len(contacts))
	for _, contact := range contacts {
		authorized[contact.ID] = contact
	}
	return &WatcherState{
		Self:              self,
		AuthorizedSenders: authorized,
		Anchor:            anchor,
	}
}

func (s *WatcherState) IsAuthorized(senderID string) bool {
	_, ok := s.AuthorizedSenders[senderID]
	return ok
}

func (s *WatcherState) IsSelf(senderID string) bool {
	return senderID != "" && senderID == s.Self.ID
}
