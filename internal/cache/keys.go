package cache

import (
	"fmt"
	"time"
)

// Per-family staleness TTLs. Messages churn fastest; the relay-admin flag
// effectively never changes within a session.
const (
	TTLGroups          = 30 * time.Second
	TTLMessages        = 10 * time.Second
	TTLMembers         = 60 * time.Second
	TTLAvailableGroups = 60 * time.Second
	TTLUnreadCount     = 30 * time.Second
	TTLRelayAdmin      = 300 * time.Second
)

// Every key is namespaced under the identity scope first, so nothing
// written under one scope is ever readable under another and a whole
// scope can be enumerated by prefix.

// ScopePrefix returns the key prefix covering everything cached for a scope.
func ScopePrefix(scope string) string {
	return "scope:" + scope + ":"
}

// GroupsKey is the cache key for the joined-groups list.
func GroupsKey(scope string) string {
	return ScopePrefix(scope) + "groups"
}

// MessagesKey is the cache key for one group's visible message window.
// The window size is part of the key: growing the window is a distinct
// entry, so the prior window stays served while the larger one loads.
func MessagesKey(scope, groupID string, window int) string {
	return fmt.Sprintf("%smessages:%s:%d", ScopePrefix(scope), groupID, window)
}

// MessagesPrefix covers every cached window for one group's messages.
func MessagesPrefix(scope, groupID string) string {
	return ScopePrefix(scope) + "messages:" + groupID + ":"
}

// MembersKey is the cache key for one group's member list.
func MembersKey(scope, groupID string) string {
	return ScopePrefix(scope) + "members:" + groupID
}

// AvailableGroupsKey is the cache key for the discoverable-groups list.
func AvailableGroupsKey(scope string) string {
	return ScopePrefix(scope) + "available"
}

// UnreadCountKey is the cache key for the aggregate unread total.
func UnreadCountKey(scope string) string {
	return ScopePrefix(scope) + "unread"
}

// RelayAdminKey is the cache key for the relay-wide admin flag.
func RelayAdminKey(scope string) string {
	return ScopePrefix(scope) + "relayadmin"
}
