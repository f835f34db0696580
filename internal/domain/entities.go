package domain

import (
	"fmt"
	"strings"
)

// Visibility controls who can discover and read a group
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Group represents a relay-hosted chat group as the engine projects it
// locally. The joined list and the discovery list both use this shape;
// UnreadCount and LastMessage arrive server-derived on the group record.
type Group struct {
	ID            string     // Relay-scoped unique identifier
	Name          string     // Display name
	Description   string     // Group topic/about text
	Visibility    Visibility // public or private
	MemberCount   int        // Current member total
	UnreadCount   int        // Unread messages in this group (badge)
	LastMessage   string     // Preview text of the most recent message
	LastMessageAt int64      // Unix timestamp of the most recent message
}

// MatchesName reports whether the group's name equals name ignoring case
// and surrounding whitespace. Used for the reserved default-group lookup.
func (g Group) MatchesName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(g.Name), strings.TrimSpace(name))
}

// Message is a single chat message. Immutable once created; deletion
// removes it by id.
type Message struct {
	ID        string // Relay-scoped unique identifier
	GroupID   string // Owning group
	Sender    string // Author pubkey
	Content   string // Message body
	Timestamp int64  // Unix timestamp
	ReplyTo   string // Replied-to message id, empty when not a reply
}

// IsReply reports whether the message replies to another message.
func (m Message) IsReply() bool {
	return m.ReplyTo != ""
}

// Role is a member's standing within a single group
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

// Member is one participant of a group.
type Member struct {
	PubKey   string // Identity key
	Role     Role   // admin, moderator, or member
	Tag      string // Optional human-readable tag/petname
	JoinedAt int64  // Unix timestamp of joining
}

// DisplayName returns the member's tag when set, otherwise a shortened
// form of the pubkey.
func (m Member) DisplayName() string {
	if m.Tag != "" {
		return m.Tag
	}
	if len(m.PubKey) > 12 {
		return m.PubKey[:12] + "…"
	}
	return m.PubKey
}

// FindMember returns the member with the given pubkey from the slice.
func FindMember(members []Member, pubkey string) (Member, bool) {
	for _, m := range members {
		if m.PubKey == pubkey {
			return m, true
		}
	}
	return Member{}, false
}

// GroupOptions carries the caller-supplied fields for creating a group.
type GroupOptions struct {
	Name        string
	Description string
	Visibility  Visibility
}

// Validate checks the options for group creation.
func (o GroupOptions) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("create group: %w", ErrEmptyGroupName)
	}
	switch o.Visibility {
	case VisibilityPublic, VisibilityPrivate, "":
	default:
		return fmt.Errorf("create group: unknown visibility %q", o.Visibility)
	}
	return nil
}

// Permissions are the derived moderation booleans for the selected group.
// Never cached; recomputed from the member list and the relay-admin flag.
type Permissions struct {
	IsAdmin     bool // Self holds the admin role in the group
	IsModerator bool // Self holds the moderator role in the group
	CanModerate bool // Admin, moderator, or relay admin on a public group
}
