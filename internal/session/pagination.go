package session

import (
	"sort"

	"github.com/parley-im/parley/internal/domain"
)

// MessagesPage is the visible slice of a group's history: the most recent
// messages up to the pagination window, oldest first.
type MessagesPage struct {
	Messages []domain.Message
	HasMore  bool // history extends beyond the window
	Total    int  // full local history size
}

// windowMessages sorts msgs chronologically and keeps the newest window
// entries. HasMore compares the full history against the requested window,
// not the clamped one.
func windowMessages(msgs []domain.Message, window int) MessagesPage {
	total := len(msgs)
	sorted := make([]domain.Message, total)
	copy(sorted, msgs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].ID < sorted[j].ID
	})

	if window < 0 {
		window = 0
	}
	visible := min(window, total)
	return MessagesPage{
		Messages: sorted[total-visible:],
		HasMore:  total > window,
		Total:    total,
	}
}

// LoadMore widens the pagination window by one page and returns the new
// window size. It does nothing without a selected group.
func (s *Session) LoadMore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return s.visible
	}
	s.visible += s.pageSize
	return s.visible
}

// VisibleCount returns the current pagination window size.
func (s *Session) VisibleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}
