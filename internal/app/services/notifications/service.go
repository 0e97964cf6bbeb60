// Package notifications records user notifications and streams them to
// connected websocket clients.
package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/notification"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Service manages notifications.
type Service struct {
	store storage.NotificationStore
	hub   *Hub
	log   *logger.Logger
}

// New constructs a notification service. hub may be nil to disable live
// streaming.
func New(store storage.NotificationStore, hub *Hub, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("notifications")
	}
	return &Service{store: store, hub: hub, log: log}
}

// Notify records a notification and pushes it to the user's live
// websocket connections, if any.
func (s *Service) Notify(ctx context.Context, userID, kind, message string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message is required")
	}

	n := notification.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
	}
	n, err := s.store.CreateNotification(ctx, n)
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Publish(userID, n)
	}

	s.log.WithField("notification_id", n.ID).
		WithField("user_id", userID).
		Debug("notification recorded")
	return nil
}

// List returns a user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, unreadOnly bool) ([]notification.Notification, error) {
	return s.store.ListNotifications(ctx, strings.TrimSpace(userID), unreadOnly)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) (notification.Notification, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return notification.Notification{}, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	return s.store.UpdateNotification(ctx, n)
}

// Hub exposes the live stream hub, if configured.
func (s *Service) Hub() *Hub {
	return s.hub
}
