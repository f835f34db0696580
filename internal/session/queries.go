package session

import (
	"context"

	"github.com/parley-im/parley/internal/cache"
	"github.com/parley-im/parley/internal/domain"
)

// Groups returns the joined group list for the active scope.
func (s *Session) Groups(ctx context.Context) ([]domain.Group, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	value, err := s.readThrough(ctx, cache.GroupsKey(snap.scope), cache.TTLGroups, func(ctx context.Context) (any, error) {
		return snap.svc.GetGroups(ctx)
	})
	if err != nil {
		return nil, err
	}
	groups, _ := value.([]domain.Group)
	return groups, nil
}

// AvailableGroups returns the joinable public group directory.
func (s *Session) AvailableGroups(ctx context.Context) ([]domain.Group, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	value, err := s.readThrough(ctx, cache.AvailableGroupsKey(snap.scope), cache.TTLAvailableGroups, func(ctx context.Context) (any, error) {
		return snap.svc.FetchAvailableGroups(ctx)
	})
	if err != nil {
		return nil, err
	}
	groups, _ := value.([]domain.Group)
	return groups, nil
}

// Messages returns the windowed message page for the selected group. With
// no selection it returns an empty page.
func (s *Session) Messages(ctx context.Context) (MessagesPage, error) {
	snap, err := s.snapshot()
	if err != nil {
		return MessagesPage{}, err
	}
	if snap.selected == "" {
		return MessagesPage{}, nil
	}

	key := cache.MessagesKey(snap.scope, snap.selected, snap.window)
	value, err := s.readThrough(ctx, key, cache.TTLMessages, func(ctx context.Context) (any, error) {
		msgs, err := snap.svc.GetMessages(ctx, snap.selected)
		if err != nil {
			return nil, err
		}
		return windowMessages(msgs, snap.window), nil
	})
	if err != nil {
		return MessagesPage{}, err
	}
	page, _ := value.(MessagesPage)
	return page, nil
}

// Members returns the member list of the selected group, nil when no group
// is selected.
func (s *Session) Members(ctx context.Context) ([]domain.Member, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if snap.selected == "" {
		return nil, nil
	}

	value, err := s.readThrough(ctx, cache.MembersKey(snap.scope, snap.selected), cache.TTLMembers, func(ctx context.Context) (any, error) {
		return snap.svc.GetMembers(ctx, snap.selected)
	})
	if err != nil {
		return nil, err
	}
	members, _ := value.([]domain.Member)
	return members, nil
}

// UnreadCount returns the total unread message count across joined groups.
func (s *Session) UnreadCount(ctx context.Context) (int, error) {
	snap, err := s.snapshot()
	if err != nil {
		return 0, err
	}

	value, err := s.readThrough(ctx, cache.UnreadCountKey(snap.scope), cache.TTLUnreadCount, func(ctx context.Context) (any, error) {
		return snap.svc.TotalUnreadCount(ctx)
	})
	if err != nil {
		return 0, err
	}
	count, _ := value.(int)
	return count, nil
}

// RelayAdmin reports whether the active identity administers the relay.
func (s *Session) RelayAdmin(ctx context.Context) (bool, error) {
	snap, err := s.snapshot()
	if err != nil {
		return false, err
	}

	value, err := s.readThrough(ctx, cache.RelayAdminKey(snap.scope), cache.TTLRelayAdmin, func(ctx context.Context) (any, error) {
		return snap.svc.IsRelayAdmin(ctx)
	})
	if err != nil {
		return false, err
	}
	admin, _ := value.(bool)
	return admin, nil
}

// refreshGroups drops the groups entry and refetches it in the background.
// Mutations call the refresh helpers after a confirmed change so the next
// read is already warm.
func (s *Session) refreshGroups(snap snapshot) {
	key := cache.GroupsKey(snap.scope)
	s.cache.Invalidate(key)
	s.revalidate(key, cache.TTLGroups, func(ctx context.Context) (any, error) {
		return snap.svc.GetGroups(ctx)
	})
}

func (s *Session) refreshAvailable(snap snapshot) {
	key := cache.AvailableGroupsKey(snap.scope)
	s.cache.Invalidate(key)
	s.revalidate(key, cache.TTLAvailableGroups, func(ctx context.Context) (any, error) {
		return snap.svc.FetchAvailableGroups(ctx)
	})
}

func (s *Session) refreshUnread(snap snapshot) {
	key := cache.UnreadCountKey(snap.scope)
	s.cache.Invalidate(key)
	s.revalidate(key, cache.TTLUnreadCount, func(ctx context.Context) (any, error) {
		return snap.svc.TotalUnreadCount(ctx)
	})
}

func (s *Session) refreshMembers(snap snapshot, groupID string) {
	key := cache.MembersKey(snap.scope, groupID)
	s.cache.Invalidate(key)
	s.revalidate(key, cache.TTLMembers, func(ctx context.Context) (any, error) {
		return snap.svc.GetMembers(ctx, groupID)
	})
}

// refreshMessages drops every cached window for groupID. When that group is
// still selected, the window in effect at call time is refetched eagerly.
func (s *Session) refreshMessages(snap snapshot, groupID string) {
	s.cache.InvalidatePrefix(cache.MessagesPrefix(snap.scope, groupID))

	s.mu.Lock()
	selected, window := s.selected, s.visible
	s.mu.Unlock()
	if selected != groupID {
		return
	}

	key := cache.MessagesKey(snap.scope, groupID, window)
	s.revalidate(key, cache.TTLMessages, func(ctx context.Context) (any, error) {
		msgs, err := snap.svc.GetMessages(ctx, groupID)
		if err != nil {
			return nil, err
		}
		return windowMessages(msgs, window), nil
	})
}
