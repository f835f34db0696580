// Package session implements the group-chat engine: an identity-scoped,
// cache-backed projection of groups, messages, membership, and moderation
// rights kept consistent against a relay transport.
//
// A Session owns one identity scope at a time. Reads flow through a keyed
// stale-while-revalidate cache; push events from the transport invalidate
// the affected key families; write operations call the transport and, on
// success, invalidate and refetch what they changed. Selection, the
// pagination window, the list filter, and the composer draft are session
// state and reset when the identity scope changes. Cache entries for a
// previous scope are left in place but are never readable under another
// scope, so switching back to an identity is cheap.
package session
