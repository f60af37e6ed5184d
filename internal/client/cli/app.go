package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/buildinfo"
	"github.com/driftdesk/driftdesk-cli/internal/client/api"
	"github.com/driftdesk/driftdesk-cli/internal/client/config"
	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/client/render"
	"github.com/driftdesk/driftdesk-cli/internal/client/routes"
	"github.com/driftdesk/driftdesk-cli/internal/client/services"
	"github.com/driftdesk/driftdesk-cli/internal/client/storage"
	"github.com/driftdesk/driftdesk-cli/internal/logging"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPageNotFound = errors.New("page not found")
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// DriftsAPI, CommentsAPI, UsersAPI and HealthAPI are the REST resources
// the screens talk to.
type DriftsAPI interface {
	Create(ctx context.Context, req models.DriftCreate) (*models.Drift, error)
	List(ctx context.Context, filter models.DriftFilter) (*models.DriftList, error)
	Get(ctx context.Context, id int64) (*models.Drift, error)
	Update(ctx context.Context, id int64, req models.DriftUpdate) (*models.Drift, error)
}

type CommentsAPI interface {
	Add(ctx context.Context, driftID int64, content string) (*models.Comment, error)
	List(ctx context.Context, driftID int64, page models.Page) (*models.CommentList, error)
	Delete(ctx context.Context, id int64) error
}

type UsersAPI interface {
	Create(ctx context.Context, req models.UserCreate) (*models.UserCreated, error)
	List(ctx context.Context) (*models.UserList, error)
}

type HealthAPI interface {
	Check(ctx context.Context) (*models.Health, error)
}

type App struct {
	config   *config.Config
	session  services.SessionService
	notes    services.NotificationCenter
	nav      *routes.Navigator
	drifts   DriftsAPI
	comments CommentsAPI
	users    UsersAPI
	health   HealthAPI
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	mu     sync.Mutex
	mode   Mode
	filter models.DriftFilter
	listed []models.Drift
}

// NewApp wires the client against db, which holds the stored session.
// Any 401 from the API signs the user out and resets the notification
// state before the failing call returns.
func NewApp(c *config.Config, db *sql.DB, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}

	store := storage.NewSessionStore(db)
	client := api.New(api.Options{
		BaseURL:   c.APIBaseURL,
		Timeout:   c.RequestTimeout,
		UserAgent: buildinfo.UserAgent(),
		Logger:    log,
	}, store)

	var session services.SessionService
	nav := routes.NewNavigator(func() *models.User { return session.User() })
	session = services.NewSessionService(client.Auth, store, nav, log)
	notes := services.NewNotificationCenter(client.Notifications, c.PollInterval, log)

	a := &App{
		config:   c,
		session:  session,
		notes:    notes,
		nav:      nav,
		drifts:   client.Drifts,
		comments: client.Comments,
		users:    client.Users,
		health:   client.Health,
		log:      log,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}

	client.OnUnauthorized(session.ForceLogout)
	session.Subscribe(func(s services.State) {
		if s == services.StateUnauthenticated {
			notes.Reset()
			a.forget()
		}
	})

	return a
}

// Run restores the stored session, shows the start screen and blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.say("Welcome to Drift Desk CLI (type 'help' for commands)")

	if err := a.session.Hydrate(ctx); err != nil {
		a.log.Warn(ctx, "restore session", "err", err)
	}
	if u := a.session.User(); u != nil {
		a.say("Signed in as %s", u.DisplayName())
		a.notes.Start(ctx)
	}
	_ = a.open(ctx, routes.Root)

	go a.StartOnlineStatusWatcher(ctx, a.config.PollInterval)

	runREPL(ctx, a, a.status, a.reader)
}

// Close stops background polling.
func (a *App) Close() {
	a.notes.Stop()
}

func (a *App) isLoggedIn() bool {
	return a.session.State() == services.StateAuthenticated
}

func (a *App) isAdmin() bool {
	u := a.session.User()
	return u != nil && u.IsAdmin()
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, fmt.Sprintf("switched to %s mode", mode))
	}
}

// status is the prompt text: "user (role) [N unread]", or "guest".
func (a *App) status() string {
	s := "guest"
	if u := a.session.User(); u != nil {
		s = fmt.Sprintf("%s (%s) [%d unread]", u.Username, u.Role, a.notes.UnreadCount())
	}
	if a.getMode() == ModeOffline {
		s += " offline"
	}
	return s
}

// forget drops per-user screen state after sign-out.
func (a *App) forget() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = models.DriftFilter{}
	a.listed = nil
}

func (a *App) say(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

// fail prints the normalized message of err and returns err. A 401 has
// already signed the user out by the time it gets here.
func (a *App) fail(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.say("Session expired. Please log in again.")
		return err
	}
	a.say("%s", render.Danger.Render(api.Message(err)))
	return err
}

// StartOnlineStatusWatcher pings the health endpoint every interval and
// records whether the API is reachable. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = services.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			_, err := a.health.Check(pingCtx)
			cancel()

			if errors.Is(err, api.ErrNetwork) {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
