package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_AcceptsAPIFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 with zone", `"2025-03-01T10:00:00+02:00"`, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)},
		{"naive with micros", `"2025-03-01T10:00:00.123456"`, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC)},
		{"naive with space", `"2025-03-01 10:00:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestamp_NullAndGarbage(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestDrift_DecodesListItem(t *testing.T) {
	raw := `{
		"id": 7, "title": "Disk full", "description": null,
		"status": "in_progress", "priority": "critical",
		"assigned_to_id": 3, "created_by_id": 1,
		"created_at": "2025-03-01T10:00:00", "updated_at": "2025-03-01T11:00:00",
		"resolved_at": null, "closed_at": null,
		"created_by": {"id": 1, "username": "root", "full_name": "Root Admin"},
		"assigned_to": {"id": 3, "username": "ops", "full_name": null},
		"comment_count": 2, "event_count": 5
	}`

	var d Drift
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, StatusInProgress, d.Status)
	assert.Equal(t, "in progress", d.Status.Label())
	require.NotNil(t, d.AssignedToID)
	assert.EqualValues(t, 3, *d.AssignedToID)
	assert.Equal(t, "ops", d.Assignee())
	assert.Equal(t, "Root Admin", d.CreatedBy.DisplayName())
	assert.Nil(t, d.ResolvedAt)
	assert.Equal(t, 2, d.CommentCount)
}

func TestDrift_AssigneeUnassigned(t *testing.T) {
	assert.Equal(t, "Unassigned", Drift{}.Assignee())
}

func TestEnums_Valid(t *testing.T) {
	assert.True(t, StatusResolved.Valid())
	assert.False(t, Status("done").Valid())
	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
}

func TestDriftUpdate_OmitsNilFields(t *testing.T) {
	status := StatusClosed
	b, err := json.Marshal(DriftUpdate{Status: &status})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"closed"}`, string(b))

	assert.True(t, DriftUpdate{}.Empty())
	assert.False(t, DriftUpdate{Status: &status}.Empty())
}

func TestDriftUpdate_UnassignSendsNull(t *testing.T) {
	b, err := json.Marshal(DriftUpdate{Unassign: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"assigned_to_id":null}`, string(b))
	assert.False(t, DriftUpdate{Unassign: true}.Empty())

	var u DriftUpdate
	require.NoError(t, json.Unmarshal(b, &u))
	assert.True(t, u.Unassign)
	assert.Nil(t, u.AssignedToID)

	u = DriftUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","assigned_to_id":4}`), &u))
	assert.False(t, u.Unassign)
	require.NotNil(t, u.AssignedToID)
	assert.Equal(t, int64(4), *u.AssignedToID)
	require.NotNil(t, u.Title)

	u = DriftUpdate{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &u))
	assert.False(t, u.Unassign)
	assert.Nil(t, u.AssignedToID)
}

func TestDriftFilter_Params(t *testing.T) {
	f := DriftFilter{Status: StatusOpen, AssignedTo: 4, Search: "  disk ", Limit: 10, SortOrder: "asc"}

	assert.Equal(t, map[string]string{
		"status":      "open",
		"assigned_to": "4",
		"search":      "disk",
		"limit":       "10",
		"sort_order":  "asc",
	}, f.Params())

	assert.Empty(t, DriftFilter{}.Params())
}

func TestNotificationFilter_Params(t *testing.T) {
	f := NotificationFilter{UnreadOnly: true, Page: Page{Limit: 5}}
	assert.Equal(t, map[string]string{"unread_only": "true", "limit": "5"}, f.Params())
}

func TestUser_DisplayNameAndRole(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Username: "ada", FullName: "Ada Lovelace"}.DisplayName())
	assert.Equal(t, "ada", User{Username: "ada", FullName: "  "}.DisplayName())
	assert.True(t, User{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleUser}.IsAdmin())
}

func TestComment_AuthorName(t *testing.T) {
	assert.Equal(t, "user #9", Comment{AuthorID: 9}.AuthorName())
	assert.Equal(t, "bob", Comment{Author: &UserRef{Username: "bob"}}.AuthorName())
}

func TestSession_Valid(t *testing.T) {
	var s *Session
	assert.False(t, s.Valid())
	assert.False(t, (&Session{Token: "t"}).Valid())
	assert.True(t, (&Session{Token: "t", User: User{Username: "u"}}).Valid())
}
