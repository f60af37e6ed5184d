package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label renders in_progress as "in progress".
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Drift is a tracked issue.
type Drift struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	Priority     Priority   `json:"priority"`
	AssignedToID *int64     `json:"assigned_to_id,omitempty"`
	CreatedByID  int64      `json:"created_by_id"`
	CreatedAt    Timestamp  `json:"created_at"`
	UpdatedAt    Timestamp  `json:"updated_at"`
	ResolvedAt   *Timestamp `json:"resolved_at,omitempty"`
	ClosedAt     *Timestamp `json:"closed_at,omitempty"`
	CreatedBy    UserRef    `json:"created_by"`
	AssignedTo   *UserRef   `json:"assigned_to,omitempty"`
	CommentCount int        `json:"comment_count,omitempty"`
	EventCount   int        `json:"event_count,omitempty"`
}

// Assignee returns the assignee's display name or "Unassigned".
func (d Drift) Assignee() string {
	if d.AssignedTo == nil {
		return "Unassigned"
	}
	return d.AssignedTo.DisplayName()
}

type DriftCreate struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Priority     Priority `json:"priority"`
	AssignedToID *int64   `json:"assigned_to_id,omitempty"`
}

// DriftUpdate is a PATCH body; nil fields are left untouched by the server.
type DriftUpdate struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Status       *Status   `json:"status,omitempty"`
	Priority     *Priority `json:"priority,omitempty"`
	AssignedToID *int64    `json:"assigned_to_id,omitempty"`

	// Unassign sends an explicit null assignee. It wins over AssignedToID.
	Unassign bool `json:"-"`
}

func (u DriftUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil &&
		u.AssignedToID == nil && !u.Unassign
}

func (u DriftUpdate) MarshalJSON() ([]byte, error) {
	type plain DriftUpdate
	if !u.Unassign {
		return json.Marshal(plain(u))
	}
	return json.Marshal(struct {
		plain
		AssignedToID *int64 `json:"assigned_to_id"`
	}{plain: plain(u)})
}

func (u *DriftUpdate) UnmarshalJSON(b []byte) error {
	type plain DriftUpdate
	var raw struct {
		plain
		AssignedToID json.RawMessage `json:"assigned_to_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = DriftUpdate(raw.plain)

	switch v := bytes.TrimSpace(raw.AssignedToID); {
	case len(v) == 0:
	case bytes.Equal(v, []byte("null")):
		u.Unassign = true
	default:
		var id int64
		if err := json.Unmarshal(v, &id); err != nil {
			return err
		}
		u.AssignedToID = &id
	}
	return nil
}

type DriftList struct {
	Drifts []Drift `json:"drifts"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// DriftFilter holds the list query. Zero values are omitted.
type DriftFilter struct {
	Status     Status
	Priority   Priority
	AssignedTo int64
	CreatedBy  int64
	Search     string
	Limit      int
	Offset     int
	SortBy     string
	SortOrder  string
}

func (f DriftFilter) Params() map[string]string {
	p := map[string]string{}
	if f.Status != "" {
		p["status"] = string(f.Status)
	}
	if f.Priority != "" {
		p["priority"] = string(f.Priority)
	}
	if f.AssignedTo > 0 {
		p["assigned_to"] = strconv.FormatInt(f.AssignedTo, 10)
	}
	if f.CreatedBy > 0 {
		p["created_by"] = strconv.FormatInt(f.CreatedBy, 10)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p["search"] = s
	}
	if f.Limit > 0 {
		p["limit"] = strconv.Itoa(f.Limit)
	}
	if f.Offset > 0 {
		p["offset"] = strconv.Itoa(f.Offset)
	}
	if f.SortBy != "" {
		p["sort_by"] = f.SortBy
	}
	if f.SortOrder != "" {
		p["sort_order"] = f.SortOrder
	}
	return p
}
