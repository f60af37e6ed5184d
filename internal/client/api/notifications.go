package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type NotificationsClient struct {
	c *Client
}

func (n *NotificationsClient) List(ctx context.Context, filter models.NotificationFilter) (*models.NotificationList, error) {
	var out models.NotificationList
	if err := n.c.do(ctx, http.MethodGet, "/api/notifications/", nil, filter.Params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (n *NotificationsClient) MarkRead(ctx context.Context, id int64) error {
	return n.c.do(ctx, http.MethodPost, "/api/notifications/read/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (n *NotificationsClient) MarkAllRead(ctx context.Context) error {
	return n.c.do(ctx, http.MethodPost, "/api/notifications/read-all", nil, nil, nil)
}

func (n *NotificationsClient) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	if err := n.c.do(ctx, http.MethodGet, "/api/notifications/unread-count", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}
