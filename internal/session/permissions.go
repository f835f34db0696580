package session

import (
	"context"

	"github.com/parley-im/parley/internal/domain"
)

// Permissions resolves the active identity's moderation rights in the
// selected group. The result is computed per call from the member list,
// the relay admin flag, and the group's visibility; relay admins moderate
// public groups they hold no role in. No selection yields no rights.
func (s *Session) Permissions(ctx context.Context) (domain.Permissions, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.Permissions{}, err
	}
	if snap.selected == "" {
		return domain.Permissions{}, nil
	}

	members, err := s.Members(ctx)
	if err != nil {
		return domain.Permissions{}, err
	}
	relayAdmin, err := s.RelayAdmin(ctx)
	if err != nil {
		return domain.Permissions{}, err
	}

	var perms domain.Permissions
	if m, ok := domain.FindMember(members, snap.svc.MyPublicKey()); ok {
		perms.IsAdmin = m.Role == domain.RoleAdmin
		perms.IsModerator = m.Role == domain.RoleModerator
	}

	public := false
	if group := s.findGroup(ctx, snap.selected); group != nil {
		public = group.Visibility == domain.VisibilityPublic
	}
	perms.CanModerate = perms.IsAdmin || perms.IsModerator || (relayAdmin && public)
	return perms, nil
}

// findGroup looks groupID up in the joined list and then the public
// directory. A group found in neither counts as private.
func (s *Session) findGroup(ctx context.Context, groupID string) *domain.Group {
	if groups, err := s.Groups(ctx); err == nil {
		for i := range groups {
			if groups[i].ID == groupID {
				return &groups[i]
			}
		}
	}
	if groups, err := s.AvailableGroups(ctx); err == nil {
		for i := range groups {
			if groups[i].ID == groupID {
				return &groups[i]
			}
		}
	}
	return nil
}
