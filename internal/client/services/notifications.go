package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/logging"
)

const DefaultPollInterval = 30 * time.Second

// NotificationsAPI is the subset of the REST client the poller needs.
type NotificationsAPI interface {
	List(ctx context.Context, filter models.NotificationFilter) (*models.NotificationList, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

// NotificationState is a point-in-time copy of the poller state.
type NotificationState struct {
	Notifications []models.Notification
	UnreadCount   int
	Loading       bool
	Error         string
}

// NotificationCenter keeps the signed-in user's notifications.
//
// Start fetches the list once and then polls only the unread counter every
// interval. The list and the counter are not reconciled between fetches.
// Mark operations touch local state only after the server confirms them.
type NotificationCenter interface {
	Start(ctx context.Context)
	Stop()
	Refetch(ctx context.Context, filter models.NotificationFilter) error
	PollUnreadCount(ctx context.Context)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context) error
	Snapshot() NotificationState
	UnreadCount() int
	Error() string
	Reset()
}

type notificationCenter struct {
	api      NotificationsAPI
	interval time.Duration
	log      logging.Logger

	mu    sync.Mutex
	state NotificationState
	// gen is bumped by Reset; responses started under an older gen are dropped.
	gen uint64

	runMu  sync.Mutex
	cancel context.CancelFunc
}

func NewNotificationCenter(notifications NotificationsAPI, interval time.Duration, log logging.Logger) NotificationCenter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logging.Discard()
	}
	return &notificationCenter{api: notifications, interval: interval, log: log}
}

// Start performs the initial fetch and launches the counter poll. Calling
// Start on a running center is a no-op.
func (n *notificationCenter) Start(ctx context.Context) {
	n.runMu.Lock()
	if n.cancel != nil {
		n.runMu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	n.cancel = cancel
	n.runMu.Unlock()

	_ = n.Refetch(ctx, models.NotificationFilter{})

	go n.poll(pollCtx)
}

func (n *notificationCenter) poll(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			n.PollUnreadCount(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the poll without waiting for it. A 401 seen by the poll
// signs the user out, and that stops the center from the poll goroutine.
func (n *notificationCenter) Stop() {
	n.runMu.Lock()
	defer n.runMu.Unlock()
	if n.cancel == nil {
		return
	}
	n.cancel()
	n.cancel = nil
}

func (n *notificationCenter) begin() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen
}

func (n *notificationCenter) Refetch(ctx context.Context, filter models.NotificationFilter) error {
	n.mu.Lock()
	gen := n.gen
	n.state.Loading = true
	n.state.Error = ""
	n.mu.Unlock()

	list, err := n.api.List(ctx, filter)

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return err
	}
	n.state.Loading = false
	if err != nil {
		n.state.Error = failure(err, "Failed to fetch notifications")
		return err
	}
	n.state.Notifications = append([]models.Notification{}, list.Notifications...)
	n.state.UnreadCount = list.UnreadCount
	return nil
}

// PollUnreadCount refreshes the counter. Failures are logged only.
func (n *notificationCenter) PollUnreadCount(ctx context.Context) {
	gen := n.begin()

	count, err := n.api.UnreadCount(ctx)
	if err != nil {
		n.log.Warn(ctx, "unread count poll failed", "err", err)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen || ctx.Err() != nil {
		return
	}
	n.state.UnreadCount = count
}

func (n *notificationCenter) MarkAsRead(ctx context.Context, id int64) error {
	gen := n.begin()

	if err := n.api.MarkRead(ctx, id); err != nil {
		n.setError(gen, failure(err, "Failed to mark notification as read"))
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return nil
	}
	for i := range n.state.Notifications {
		if n.state.Notifications[i].ID == id {
			n.state.Notifications[i].IsRead = true
		}
	}
	n.state.UnreadCount = max(0, n.state.UnreadCount-1)
	return nil
}

func (n *notificationCenter) MarkAllAsRead(ctx context.Context) error {
	gen := n.begin()

	if err := n.api.MarkAllRead(ctx); err != nil {
		n.setError(gen, failure(err, "Failed to mark all notifications as read"))
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.gen {
		return nil
	}
	for i := range n.state.Notifications {
		n.state.Notifications[i].IsRead = true
	}
	n.state.UnreadCount = 0
	return nil
}

func (n *notificationCenter) setError(gen uint64, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen == n.gen {
		n.state.Error = msg
	}
}

func (n *notificationCenter) Snapshot() NotificationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.state
	out.Notifications = append([]models.Notification(nil), n.state.Notifications...)
	return out
}

func (n *notificationCenter) UnreadCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.UnreadCount
}

func (n *notificationCenter) Error() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.Error
}

// Reset stops polling and forgets everything, e.g. on sign-out.
func (n *notificationCenter) Reset() {
	n.Stop()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.state = NotificationState{}
}

// failure prefers the normalized API message and falls back to def.
func failure(err error, def string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return def
}
