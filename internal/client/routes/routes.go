// Package routes maps client locations to screens and applies the access
// guards: protected screens need a session, the admin screen needs the
// admin role, and a signed-in user never sees the login screen.
package routes

import (
	"strconv"
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

const (
	Root       = "/"
	Login      = "/login"
	Drifts     = "/drifts"
	NewDrift   = "/drifts/new"
	AdminUsers = "/admin/users"
)

func DriftDetail(id int64) string {
	return Drifts + "/" + strconv.FormatInt(id, 10)
}

func DriftEdit(id int64) string {
	return DriftDetail(id) + "/edit"
}

type Screen int

const (
	ScreenNotFound Screen = iota
	ScreenLogin
	ScreenDriftList
	ScreenDriftNew
	ScreenDriftDetail
	ScreenDriftEdit
	ScreenAdminUsers
)

var screenNames = map[Screen]string{
	ScreenNotFound:    "not-found",
	ScreenLogin:       "login",
	ScreenDriftList:   "drift-list",
	ScreenDriftNew:    "drift-new",
	ScreenDriftDetail: "drift-detail",
	ScreenDriftEdit:   "drift-edit",
	ScreenAdminUsers:  "admin-users",
}

func (s Screen) String() string {
	return screenNames[s]
}

// Route is a resolved location.
type Route struct {
	Path    string
	Screen  Screen
	DriftID int64
}

func (r Route) Public() bool {
	return r.Screen == ScreenLogin
}

func (r Route) AdminOnly() bool {
	return r.Screen == ScreenAdminUsers
}

// Clean normalizes user input such as "drifts/3/" to "/drifts/3".
func Clean(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	return path
}

// Match maps a path to its screen without applying guards.
func Match(path string) Route {
	path = Clean(path)
	r := Route{Path: path, Screen: ScreenNotFound}

	switch path {
	case Login:
		r.Screen = ScreenLogin
		return r
	case Drifts:
		r.Screen = ScreenDriftList
		return r
	case NewDrift:
		r.Screen = ScreenDriftNew
		return r
	case AdminUsers:
		r.Screen = ScreenAdminUsers
		return r
	}

	rest, ok := strings.CutPrefix(path, Drifts+"/")
	if !ok {
		return r
	}
	idPart, suffix, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return r
	}

	switch suffix {
	case "":
		r.Screen, r.DriftID = ScreenDriftDetail, id
	case "edit":
		r.Screen, r.DriftID = ScreenDriftEdit, id
	}
	return r
}

// Resolve applies the guards for user (nil when signed out) and returns
// the location actually shown. "/" always lands on the drift list.
func Resolve(path string, user *models.User) Route {
	path = Clean(path)
	if path == Root {
		path = Drifts
	}
	r := Match(path)

	switch {
	case user == nil && !r.Public():
		return Match(Login)
	case user != nil && r.Screen == ScreenLogin:
		return Match(Drifts)
	case user != nil && r.AdminOnly() && !user.IsAdmin():
		return Match(Drifts)
	}
	return r
}
