package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/parley-im/parley/internal/cache"
	"github.com/parley-im/parley/internal/domain"
)

// Join joins groupID, optionally via an invite code, and selects it. Any
// history cached for the group before membership is dropped.
func (s *Session) Join(ctx context.Context, groupID, inviteCode string) error {
	if groupID == "" {
		return fmt.Errorf("join group: %w", domain.ErrEmptyGroupID)
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	if err := snap.svc.JoinGroup(ctx, groupID, inviteCode); err != nil {
		s.logger.Error("failed to join group", "error", err, "groupID", groupID)
		return err
	}

	s.refreshGroups(snap)
	s.refreshAvailable(snap)
	s.cache.InvalidatePrefix(cache.MessagesPrefix(snap.scope, groupID))
	s.logger.Info("joined group", "groupID", groupID)

	if err := s.Select(ctx, groupID); err != nil {
		s.logger.Warn("failed to select joined group", "error", err, "groupID", groupID)
	}
	return nil
}

// Leave leaves groupID and reports whether the relay confirmed it. Leaving
// is best-effort: failures are logged, never returned.
func (s *Session) Leave(ctx context.Context, groupID string) bool {
	snap, err := s.snapshot()
	if err != nil {
		s.logger.Error("failed to leave group", "error", err, "groupID", groupID)
		return false
	}

	ok, err := snap.svc.LeaveGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("failed to leave group", "error", err, "groupID", groupID)
		return false
	}
	if !ok {
		s.logger.Error("leave group rejected", "groupID", groupID)
		return false
	}

	s.refreshGroups(snap)
	s.refreshAvailable(snap)
	s.refreshUnread(snap)
	s.deselectIf(groupID)
	s.logger.Info("left group", "groupID", groupID)
	return true
}

// Send posts content to the selected group, optionally as a reply, and
// clears the draft on success.
func (s *Session) Send(ctx context.Context, content, replyTo string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("send message: %w", domain.ErrEmptyContent)
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if snap.selected == "" {
		return fmt.Errorf("send message: %w", domain.ErrNoGroupSelected)
	}

	msg, err := snap.svc.SendMessage(ctx, snap.selected, content, replyTo)
	if err != nil {
		s.logger.Error("failed to send message", "error", err, "groupID", snap.selected)
		return err
	}
	if msg == nil {
		return fmt.Errorf("send message: %w", domain.ErrOperationRejected)
	}

	s.refreshMessages(snap, snap.selected)
	s.refreshGroups(snap)

	s.mu.Lock()
	s.draft = ""
	s.mu.Unlock()

	s.logger.Debug("sent message", "groupID", snap.selected, "messageID", msg.ID)
	return nil
}

// DeleteMessage removes messageID from the selected group.
func (s *Session) DeleteMessage(ctx context.Context, messageID string) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if snap.selected == "" {
		return fmt.Errorf("delete message: %w", domain.ErrNoGroupSelected)
	}

	ok, err := snap.svc.DeleteMessage(ctx, snap.selected, messageID)
	if err != nil {
		s.logger.Error("failed to delete message", "error", err, "groupID", snap.selected, "messageID", messageID)
		return err
	}
	if !ok {
		return fmt.Errorf("delete message: %w", domain.ErrOperationRejected)
	}

	s.refreshMessages(snap, snap.selected)
	s.logger.Info("deleted message", "groupID", snap.selected, "messageID", messageID)
	return nil
}

// Kick removes the member with pubkey from the selected group.
func (s *Session) Kick(ctx context.Context, pubkey, reason string) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if snap.selected == "" {
		return fmt.Errorf("kick user: %w", domain.ErrNoGroupSelected)
	}

	ok, err := snap.svc.KickUser(ctx, snap.selected, pubkey, reason)
	if err != nil {
		s.logger.Error("failed to kick user", "error", err, "groupID", snap.selected, "pubkey", pubkey)
		return err
	}
	if !ok {
		return fmt.Errorf("kick user: %w", domain.ErrOperationRejected)
	}

	s.refreshMembers(snap, snap.selected)
	s.logger.Info("kicked user", "groupID", snap.selected, "pubkey", pubkey)
	return nil
}

// CreateGroup creates a group from opts and selects it.
func (s *Session) CreateGroup(ctx context.Context, opts domain.GroupOptions) (*domain.Group, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	group, err := snap.svc.CreateGroup(ctx, opts)
	if err != nil {
		s.logger.Error("failed to create group", "error", err, "name", opts.Name)
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("create group: %w", domain.ErrOperationRejected)
	}

	s.refreshGroups(snap)
	s.refreshAvailable(snap)
	s.logger.Info("created group", "groupID", group.ID, "name", group.Name)

	if err := s.Select(ctx, group.ID); err != nil {
		s.logger.Warn("failed to select created group", "error", err, "groupID", group.ID)
	}
	return group, nil
}

// DeleteGroup deletes groupID from the relay.
func (s *Session) DeleteGroup(ctx context.Context, groupID string) error {
	snap, err := s.snapshot()
	if err != nil {
		return err
	}

	ok, err := snap.svc.DeleteGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("failed to delete group", "error", err, "groupID", groupID)
		return err
	}
	if !ok {
		return fmt.Errorf("delete group: %w", domain.ErrOperationRejected)
	}

	s.refreshGroups(snap)
	s.refreshAvailable(snap)
	s.deselectIf(groupID)
	s.logger.Info("deleted group", "groupID", groupID)
	return nil
}

// CreateInvite mints an invite code for groupID. Nothing cached depends on
// invite codes, so no entries are touched.
func (s *Session) CreateInvite(ctx context.Context, groupID string) (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}

	code, err := snap.svc.CreateInvite(ctx, groupID)
	if err != nil {
		s.logger.Error("failed to create invite", "error", err, "groupID", groupID)
		return "", err
	}
	if code == "" {
		return "", fmt.Errorf("create invite: %w", domain.ErrOperationRejected)
	}

	s.logger.Info("created invite", "groupID", groupID)
	return code, nil
}
