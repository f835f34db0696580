package session

import (
	"github.com/parley-im/parley/internal/cache"
	"github.com/parley-im/parley/internal/domain"
)

// consumeEvents drains the transport's push stream until it closes. Each
// event is applied against the selection in effect when it arrives.
func (s *Session) consumeEvents(events <-chan domain.Event) {
	for ev := range events {
		s.handleEvent(ev)
	}
	s.logger.Debug("event stream closed")
}

// handleEvent maps one push event onto cache invalidations. Events only
// discard; the next read repopulates.
func (s *Session) handleEvent(ev domain.Event) {
	s.mu.Lock()
	scope, selected := s.scope, s.selected
	s.mu.Unlock()

	switch ev := ev.(type) {
	case domain.UpdatedEvent:
		s.cache.Invalidate(cache.GroupsKey(scope))
		if selected != "" {
			s.cache.InvalidatePrefix(cache.MessagesPrefix(scope, selected))
		}
		s.cache.Invalidate(cache.UnreadCountKey(scope))

	case domain.MessageEvent:
		if selected != "" && ev.Message.GroupID == selected {
			s.cache.InvalidatePrefix(cache.MessagesPrefix(scope, selected))
			s.cache.Invalidate(cache.MembersKey(scope, selected))
			s.markGroupRead(selected)
		}
		s.cache.Invalidate(cache.GroupsKey(scope))
		s.cache.Invalidate(cache.UnreadCountKey(scope))

	case domain.KickedEvent:
		s.deselectIf(ev.GroupID)

	case domain.GroupDeletedEvent:
		s.deselectIf(ev.GroupID)
	}
}

// markGroupRead acknowledges groupID on the transport. Runs inside the
// event loop, which has no caller to return to, so failures are only logged.
func (s *Session) markGroupRead(groupID string) {
	s.mu.Lock()
	svc := s.svc
	s.mu.Unlock()
	if svc == nil {
		return
	}

	if err := svc.MarkGroupAsRead(s.ctx, groupID); err != nil {
		s.logger.Warn("failed to mark group as read", "error", err, "groupID", groupID)
	}
}
