package client

import (
	"context"
	"net/http"

	"github.com/resolvedesk/resolvedesk/internal/app/domain/notification"
)

// ListNotifications returns the session user's notifications, newest
// first. unreadOnly restricts the answer to unread ones.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool) ([]notification.Notification, error) {
	path := "/api/notifications"
	if unreadOnly {
		path += "?unread=true"
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var notifications []notification.Notification
	if err := decode(resp, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) (notification.Notification, error) {
	resp, err := c.do(ctx, http.MethodPut, "/api/notifications/"+id+"/read", nil)
	if err != nil {
		return notification.Notification{}, err
	}
	var n notification.Notification
	if err := decode(resp, &n); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}
