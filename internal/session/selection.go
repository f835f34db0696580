package session

import (
	"context"
	"fmt"

	"github.com/parley-im/parley/internal/cache"
	"github.com/parley-im/parley/internal/domain"
)

// Select makes groupID the active group: the selection is persisted, the
// group is marked read, the unread total invalidated, and the pagination
// window reset when the selection actually changed. If no history is
// cached locally yet, one backfill fetch runs before the first page is
// served.
func (s *Session) Select(ctx context.Context, groupID string) error {
	if groupID == "" {
		return fmt.Errorf("select group: %w", domain.ErrEmptyGroupID)
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.selected != groupID {
		s.selected = groupID
		s.visible = s.pageSize
	}
	window := s.visible
	s.mu.Unlock()

	if err := s.kv.Set(domain.SelectionKey(snap.scope), groupID); err != nil {
		s.logger.Warn("failed to persist selection", "error", err, "groupID", groupID)
	}
	if err := snap.svc.MarkGroupAsRead(ctx, groupID); err != nil {
		s.logger.Warn("failed to mark group as read", "error", err, "groupID", groupID)
	}
	s.cache.Invalidate(cache.UnreadCountKey(snap.scope))

	msgs, err := snap.svc.GetMessages(ctx, groupID)
	if err != nil {
		s.logger.Error("failed to load messages", "error", err, "groupID", groupID)
		return err
	}
	if len(msgs) == 0 {
		msgs, err = snap.svc.FetchMessages(ctx, groupID)
		if err != nil {
			s.logger.Error("failed to fetch message history", "error", err, "groupID", groupID)
			return err
		}
	}
	s.cache.Write(cache.MessagesKey(snap.scope, groupID, window), windowMessages(msgs, window), cache.TTLMessages)

	s.logger.Info("selected group", "groupID", groupID)
	return nil
}

// deselectIf clears the selection when groupID is the selected group. The
// persisted selection stays put; restore validates it against current
// membership anyway.
func (s *Session) deselectIf(groupID string) {
	s.mu.Lock()
	if s.selected != groupID || groupID == "" {
		s.mu.Unlock()
		return
	}
	s.selected = ""
	s.visible = s.pageSize
	s.mu.Unlock()

	s.logger.Info("deselected group", "groupID", groupID)
}

// Selected returns the selected group id, "" when none.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// RestoreSelection re-establishes a selection after startup: the persisted
// group id if the identity is still a member, otherwise the group whose
// name matches the reserved default. With neither, no group is selected.
func (s *Session) RestoreSelection(ctx context.Context) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if snap.selected != "" {
		return nil
	}

	groups, err := s.Groups(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	if stored, ok := s.kv.Get(domain.SelectionKey(snap.scope)); ok {
		for _, g := range groups {
			if g.ID == stored {
				return s.Select(ctx, stored)
			}
		}
		s.logger.Debug("stored selection no longer joined", "groupID", stored)
	}

	for _, g := range groups {
		if g.MatchesName(s.defaultGroup) {
			return s.Select(ctx, g.ID)
		}
	}
	return nil
}

// MarkRead marks groupID read on the transport and refreshes the unread
// total and group list.
func (s *Session) MarkRead(ctx context.Context, groupID string) error {
	if groupID == "" {
		return fmt.Errorf("mark read: %w", domain.ErrEmptyGroupID)
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	if err := snap.svc.MarkGroupAsRead(ctx, groupID); err != nil {
		s.logger.Error("failed to mark group as read", "error", err, "groupID", groupID)
		return err
	}

	s.refreshUnread(snap)
	s.refreshGroups(snap)
	return nil
}
