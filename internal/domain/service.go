package domain

import "context"

// ChatService is the relay-backed transport collaborator. The engine owns
// no wire format or on-disk schema; everything behind this interface is
// the transport's problem, including retries and timeouts.
//
// Reads against the transport's local store (GetGroups, GetMessages,
// GetMembers) are expected to be fast; Fetch-prefixed calls force remote
// work. Falsy success indicators (nil message/group, false, empty invite)
// mean the relay rejected the operation without a transport failure.
type ChatService interface {
	// Reads
	GetGroups(ctx context.Context) ([]Group, error)
	GetMessages(ctx context.Context, groupID string) ([]Message, error)
	GetMembers(ctx context.Context, groupID string) ([]Member, error)
	FetchAvailableGroups(ctx context.Context) ([]Group, error)
	// FetchMessages forces a remote refresh of the group's history into
	// the transport's local store and returns the refreshed set.
	FetchMessages(ctx context.Context, groupID string) ([]Message, error)
	TotalUnreadCount(ctx context.Context) (int, error)
	IsGroupAdmin(ctx context.Context, groupID string) (bool, error)
	IsGroupModerator(ctx context.Context, groupID string) (bool, error)
	IsRelayAdmin(ctx context.Context) (bool, error)
	// MyPublicKey returns the active identity's primary address, or ""
	// when no identity is active. Never blocks.
	MyPublicKey() string

	// Writes
	JoinGroup(ctx context.Context, groupID, inviteCode string) error
	LeaveGroup(ctx context.Context, groupID string) (bool, error)
	SendMessage(ctx context.Context, groupID, content, replyTo string) (*Message, error)
	DeleteMessage(ctx context.Context, groupID, messageID string) (bool, error)
	KickUser(ctx context.Context, groupID, pubkey, reason string) (bool, error)
	CreateGroup(ctx context.Context, opts GroupOptions) (*Group, error)
	DeleteGroup(ctx context.Context, groupID string) (bool, error)
	CreateInvite(ctx context.Context, groupID string) (string, error)
	MarkGroupAsRead(ctx context.Context, groupID string) error

	// Events returns the push-event stream. The channel is closed when
	// ctx is done. One subscription per session lifetime.
	Events(ctx context.Context) (<-chan Event, error)
}
