package domain

// Event is a push notification from the chat service. Exactly four kinds
// exist; the session's event bridge maps each to cache invalidations and,
// for the removal events, a deselection.
type Event interface {
	event()
}

// UpdatedEvent signals that group metadata or membership changed somewhere
// on the relay.
type UpdatedEvent struct{}

// MessageEvent delivers a newly received message.
type MessageEvent struct {
	Message Message
}

// KickedEvent signals the current user was removed from a group.
type KickedEvent struct {
	GroupID string
}

// GroupDeletedEvent signals a group was deleted at the relay.
type GroupDeletedEvent struct {
	GroupID string
}

func (UpdatedEvent) event()      {}
func (MessageEvent) event()      {}
func (KickedEvent) event()       {}
func (GroupDeletedEvent) event() {}
