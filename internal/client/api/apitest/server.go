// Package apitest runs an in-memory Drift Desk API for tests.
//
// The server keeps users, drifts, comments and notifications in memory,
// issues HS256 tokens and answers with the same shapes and status codes as
// the real API. Failures can be injected per request path with Fail.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("apitest-secret")

const TokenTTL = 30 * time.Minute

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	body   any
	times  int
}

// Server is a fake Drift Desk API bound to a local httptest listener.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	now           func() time.Time
	accounts      map[int64]*account
	tokens        map[string]int64
	drifts        map[int64]*models.Drift
	comments      map[int64]*models.Comment
	notifications map[int64]*models.Notification
	nextID        int64
	healthy       bool

	calls    map[string]int
	failures map[string]*failure
	headers  http.Header
}

// New starts a server and closes it when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		now:           time.Now,
		accounts:      map[int64]*account{},
		tokens:        map[string]int64{},
		drifts:        map[int64]*models.Drift{},
		comments:      map[int64]*models.Comment{},
		notifications: map[int64]*models.Notification{},
		healthy:       true,
		calls:         map[string]int{},
		failures:      map[string]*failure{},
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record)

	api := r.Group("/api")
	api.GET("/health", s.health)

	auth := api.Group("/auth")
	auth.POST("/bootstrap", s.bootstrap)
	auth.POST("/login", s.login)
	auth.GET("/me", s.authenticated, s.me)

	users := api.Group("/users", s.authenticated, s.adminOnly)
	users.POST("/", s.createUser)
	users.GET("/", s.listUsers)
	users.GET("/:id", s.getUser)

	drifts := api.Group("/drifts", s.authenticated)
	drifts.POST("/", s.createDrift)
	drifts.GET("/", s.listDrifts)
	drifts.GET("/:id", s.getDrift)
	drifts.PATCH("/:id", s.updateDrift)

	comments := api.Group("/comments", s.authenticated)
	comments.POST("/:id", s.addComment)
	comments.GET("/:id", s.listComments)
	comments.DELETE("/comment/:id", s.deleteComment)

	notes := api.Group("/notifications", s.authenticated)
	notes.GET("/", s.listNotifications)
	notes.GET("/unread-count", s.unreadCount)
	notes.POST("/read/:id", s.markRead)
	notes.POST("/read-all", s.markAllRead)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "message": "The requested resource was not found."})
	})
	return r
}

func callKey(method, path string) string {
	return method + " " + path
}

// record counts calls, keeps the last request headers and serves injected
// failures.
func (s *Server) record(c *gin.Context) {
	key := callKey(c.Request.Method, c.Request.URL.Path)

	s.mu.Lock()
	s.calls[key]++
	s.headers = c.Request.Header.Clone()
	f := s.failures[key]
	if f != nil {
		f.times--
		if f.times == 0 {
			delete(s.failures, key)
		}
	}
	s.mu.Unlock()

	if f != nil {
		if f.body == nil {
			c.AbortWithStatus(f.status)
			return
		}
		c.AbortWithStatusJSON(f.status, f.body)
		return
	}
	c.Next()
}

// Fail makes the next times requests to method+path answer status with
// body. times <= 0 fails until Reset.
func (s *Server) Fail(method, path string, status int, body any, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[callKey(method, path)] = &failure{status: status, body: body, times: times}
}

// Reset clears injected failures and call counters.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]*failure{}
	s.calls = map[string]int{}
}

func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey(method, path)]
}

// TotalCalls counts every request received.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

// LastHeader returns a header of the most recent request.
func (s *Server) LastHeader(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headers == nil {
		return ""
	}
	return s.headers.Get(name)
}

func (s *Server) SetHealthy(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = ok
}

// RevokeTokens invalidates every issued token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]int64{}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) stamp() models.Timestamp {
	return models.NewTimestamp(s.now())
}

// AddUser seeds an account. Zero ID, role and timestamps are filled in.
func (s *Server) AddUser(u models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(u, password)
}

func (s *Server) addUserLocked(u models.User, password string) models.User {
	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.stamp()
		u.UpdatedAt = u.CreatedAt
	}
	s.accounts[u.ID] = &account{user: u, password: password}
	return u
}

// IssueToken returns a valid token for an existing user.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID int64) string {
	claims := jwt.MapClaims{
		"sub": s.accounts[userID].user.Username,
		"uid": userID,
		"exp": s.now().Add(TokenTTL).Unix(),
		"jti": s.id(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	s.tokens[token] = userID
	return token
}

func (s *Server) AddDrift(d models.Drift) models.Drift {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.id()
	}
	if d.Status == "" {
		d.Status = models.StatusOpen
	}
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.stamp()
		d.UpdatedAt = d.CreatedAt
	}
	if a, ok := s.accounts[d.CreatedByID]; ok {
		d.CreatedBy = ref(a.user)
	}
	s.drifts[d.ID] = &d
	return d
}

func (s *Server) AddComment(c models.Comment) models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.stamp()
		c.UpdatedAt = c.CreatedAt
	}
	if a, ok := s.accounts[c.AuthorID]; ok && c.Author == nil {
		r := ref(a.user)
		c.Author = &r
	}
	s.comments[c.ID] = &c
	return c
}

func (s *Server) AddNotification(n models.Notification) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		n.ID = s.id()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.stamp()
	}
	s.notifications[n.ID] = &n
	return n
}

// Notification returns the stored copy, for asserting server-side state.
func (s *Server) Notification(id int64) (models.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return models.Notification{}, false
	}
	return *n, true
}

func (s *Server) Drift(id int64) (models.Drift, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drifts[id]
	if !ok {
		return models.Drift{}, false
	}
	return *d, true
}

func ref(u models.User) models.UserRef {
	return models.UserRef{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
