package models

import "strconv"

type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	DriftID   *int64     `json:"drift_id,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt Timestamp  `json:"created_at"`
	ReadAt    *Timestamp `json:"read_at,omitempty"`
	Drift     *DriftRef  `json:"drift,omitempty"`
}

// DriftRef is the linked drift summary attached to a notification.
type DriftRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	UnreadCount   int            `json:"unread_count"`
}

type UnreadCount struct {
	UnreadCount int `json:"unread_count"`
}

type NotificationFilter struct {
	UnreadOnly bool
	Page
}

func (f NotificationFilter) Params() map[string]string {
	p := f.Page.Params()
	if f.UnreadOnly {
		p["unread_only"] = strconv.FormatBool(true)
	}
	return p
}
