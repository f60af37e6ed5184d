package routes

import (
	"sync"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

// Navigator keeps the current location. It is safe for concurrent use;
// the unauthorized handler may redirect from a request goroutine.
type Navigator struct {
	mu      sync.Mutex
	user    func() *models.User
	current Route
	changed bool
}

// NewNavigator starts at the login screen. user reports the signed-in
// user, or nil.
func NewNavigator(user func() *models.User) *Navigator {
	return &Navigator{user: user, current: Match(Login)}
}

// Navigate resolves path against the guards and makes it current.
func (n *Navigator) Navigate(path string) Route {
	r := Resolve(path, n.user())

	n.mu.Lock()
	defer n.mu.Unlock()
	if r != n.current {
		n.changed = true
	}
	n.current = r
	return r
}

// Revalidate re-applies the guards to the current location, e.g. after
// the session changed.
func (n *Navigator) Revalidate() Route {
	return n.Navigate(n.Current().Path)
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// TakeChanged reports whether the location moved since the last call.
func (n *Navigator) TakeChanged() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := n.changed
	n.changed = false
	return c
}
