package routes

import (
	"testing"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/stretchr/testify/assert"
)

var (
	admin  = &models.User{ID: 1, Username: "root", Role: models.RoleAdmin}
	member = &models.User{ID: 2, Username: "bob", Role: models.RoleUser}
)

func TestMatch(t *testing.T) {
	tests := []struct {
		path   string
		screen Screen
		id     int64
	}{
		{"/login", ScreenLogin, 0},
		{"/drifts", ScreenDriftList, 0},
		{"drifts/", ScreenDriftList, 0},
		{"/drifts/new", ScreenDriftNew, 0},
		{"/drifts/42", ScreenDriftDetail, 42},
		{"/drifts/42/edit", ScreenDriftEdit, 42},
		{"/drifts/42?tab=comments", ScreenDriftDetail, 42},
		{"/admin/users", ScreenAdminUsers, 0},
		{"/drifts/abc", ScreenNotFound, 0},
		{"/drifts/0", ScreenNotFound, 0},
		{"/drifts/42/history", ScreenNotFound, 0},
		{"/nowhere", ScreenNotFound, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := Match(tt.path)
			assert.Equal(t, tt.screen, r.Screen)
			assert.Equal(t, tt.id, r.DriftID)
		})
	}
}

func TestResolve_Guards(t *testing.T) {
	tests := []struct {
		name string
		path string
		user *models.User
		want string
	}{
		{"signed out goes to login", "/drifts", nil, Login},
		{"signed out 404 goes to login", "/nowhere", nil, Login},
		{"signed out admin goes to login", AdminUsers, nil, Login},
		{"signed out login stays", Login, nil, Login},
		{"signed in leaves login", Login, member, Drifts},
		{"root redirects", Root, member, Drifts},
		{"member kept out of admin", AdminUsers, member, Drifts},
		{"admin reaches admin", AdminUsers, admin, AdminUsers},
		{"detail", "/drifts/7", member, "/drifts/7"},
		{"unknown stays unknown", "/nowhere", member, "/nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.user).Path)
		})
	}
	assert.Equal(t, ScreenNotFound, Resolve("/nowhere", member).Screen)
}

func TestPathBuilders(t *testing.T) {
	assert.Equal(t, "/drifts/5", DriftDetail(5))
	assert.Equal(t, "/drifts/5/edit", DriftEdit(5))
	assert.Equal(t, "drift-edit", Match(DriftEdit(5)).Screen.String())
}

func TestNavigator_FollowsSession(t *testing.T) {
	var user *models.User
	nav := NewNavigator(func() *models.User { return user })

	assert.Equal(t, Login, nav.Current().Path)
	assert.Equal(t, Login, nav.Navigate("/drifts").Path)
	assert.False(t, nav.TakeChanged())

	user = member
	assert.Equal(t, Drifts, nav.Revalidate().Path)
	assert.True(t, nav.TakeChanged())
	assert.False(t, nav.TakeChanged())

	assert.Equal(t, Drifts, nav.Navigate(AdminUsers).Path)

	user = admin
	assert.Equal(t, AdminUsers, nav.Navigate(AdminUsers).Path)

	user = nil
	assert.Equal(t, Login, nav.Revalidate().Path)
}
