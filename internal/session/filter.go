package session

import (
	"context"
	"strings"

	"github.com/parley-im/parley/internal/domain"
	"github.com/parley-im/parley/internal/search"
)

// GroupMatch pairs a group with the rune positions of its name that
// matched the filter query, for highlighting. MatchedIndexes is nil for
// typo-distance matches and for a blank query.
type GroupMatch struct {
	Group          domain.Group
	MatchedIndexes []int
}

// SetFilter stores the group list filter query.
func (s *Session) SetFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = query
}

// Filter returns the stored filter query.
func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// FilteredGroups returns the joined groups matching the stored filter,
// best match first. A blank filter returns every group in list order.
func (s *Session) FilteredGroups(ctx context.Context) ([]GroupMatch, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	query := strings.TrimSpace(s.filter)
	s.mu.Unlock()

	if query == "" {
		all := make([]GroupMatch, len(groups))
		for i, g := range groups {
			all[i] = GroupMatch{Group: g}
		}
		return all, nil
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}

	matches := search.Filter(query, names)
	result := make([]GroupMatch, len(matches))
	for i, m := range matches {
		result[i] = GroupMatch{Group: groups[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return result, nil
}
