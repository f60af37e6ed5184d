package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/gin-gonic/gin"
)

const ctxUserID = "uid"

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// validation answers like FastAPI's request validation errors.
func validation(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func (s *Server) authenticated(c *gin.Context) {
	token := bearer(c)

	s.mu.Lock()
	uid, ok := s.tokens[token]
	acc := s.accounts[uid]
	s.mu.Unlock()

	if token == "" || !ok || acc == nil || !acc.user.IsActive {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	c.Set(ctxUserID, uid)
	c.Next()
}

func (s *Server) adminOnly(c *gin.Context) {
	s.mu.Lock()
	acc := s.accounts[c.GetInt64(ctxUserID)]
	s.mu.Unlock()

	if acc == nil || acc.user.Role != models.RoleAdmin {
		detail(c, http.StatusForbidden, "Not enough permissions")
		return
	}
	c.Next()
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		validation(c, "id", "value is not a valid integer")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *Server) health(c *gin.Context) {
	s.mu.Lock()
	ok := s.healthy
	s.mu.Unlock()

	if !ok {
		detail(c, http.StatusServiceUnavailable, "Database connection failed: unreachable")
		return
	}
	c.JSON(http.StatusOK, models.Health{Status: "healthy", Database: "connected", Message: "All systems operational"})
}

func (s *Server) bootstrap(c *gin.Context) {
	var req models.BootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.accounts) > 0 {
		detail(c, http.StatusBadRequest, "System already initialized. Admin user exists.")
		return
	}
	if len(req.Password) < 6 {
		validation(c, "password", "ensure this value has at least 6 characters")
		return
	}

	u := s.addUserLocked(models.User{
		Username: req.Username, Email: req.Email, FullName: req.FullName,
		Role: models.RoleAdmin, IsActive: true,
	}, req.Password)

	c.JSON(http.StatusCreated, models.BootstrapResponse{Message: "Admin user created successfully", User: u})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.user.Username != req.Username || a.password != req.Password {
			continue
		}
		if !a.user.IsActive {
			detail(c, http.StatusBadRequest, "Inactive user")
			return
		}
		c.JSON(http.StatusOK, models.LoginResponse{
			AccessToken: s.issueLocked(a.user.ID),
			TokenType:   "bearer",
			User:        a.user,
		})
		return
	}
	detail(c, http.StatusUnauthorized, "Incorrect username or password")
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	u := s.accounts[c.GetInt64(ctxUserID)].user
	s.mu.Unlock()
	c.JSON(http.StatusOK, u)
}

func (s *Server) createUser(c *gin.Context) {
	var req models.UserCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.user.Username == req.Username {
			detail(c, http.StatusBadRequest, "Username already registered")
			return
		}
		if a.user.Email == req.Email {
			detail(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}

	u := s.addUserLocked(models.User{
		Username: req.Username, Email: req.Email, FullName: req.FullName,
		Role: req.Role, IsActive: req.IsActive,
	}, req.Password)
	c.JSON(http.StatusCreated, models.UserCreated{Message: "User created successfully", User: u})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	c.JSON(http.StatusOK, models.UserList{Users: users, Total: len(users)})
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	a, found := s.accounts[id]
	s.mu.Unlock()

	if !found {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, a.user)
}

func (s *Server) createDrift(c *gin.Context) {
	var req models.DriftCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		validation(c, "title", "ensure this value has at least 1 characters")
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	if !req.Priority.Valid() {
		validation(c, "priority", "value is not a valid enumeration member")
		return
	}

	d := s.AddDrift(models.Drift{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
		CreatedByID:  c.GetInt64(ctxUserID),
	})
	c.JSON(http.StatusCreated, d)
}

func (s *Server) listDrifts(c *gin.Context) {
	status := models.Status(c.Query("status"))
	priority := models.Priority(c.Query("priority"))
	search := strings.ToLower(c.Query("search"))
	assigned, _ := strconv.ParseInt(c.Query("assigned_to"), 10, 64)
	creator, _ := strconv.ParseInt(c.Query("created_by"), 10, 64)
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	desc := c.DefaultQuery("sort_order", "desc") == "desc"

	s.mu.Lock()
	var out []models.Drift
	for _, d := range s.drifts {
		if status != "" && d.Status != status {
			continue
		}
		if priority != "" && d.Priority != priority {
			continue
		}
		if assigned > 0 && (d.AssignedToID == nil || *d.AssignedToID != assigned) {
			continue
		}
		if creator > 0 && d.CreatedByID != creator {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(d.Title+" "+d.Description), search) {
			continue
		}
		out = append(out, *d)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})

	c.JSON(http.StatusOK, models.DriftList{
		Drifts: page(out, offset, limit),
		Total:  len(out),
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) getDrift(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	d, found := s.drifts[id]
	var out models.Drift
	if found {
		out = *d
		for _, cm := range s.comments {
			if cm.DriftID == id {
				out.CommentCount++
			}
		}
	}
	s.mu.Unlock()

	if !found {
		detail(c, http.StatusNotFound, "Drift not found")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateDrift(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.DriftUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		validation(c, "status", "value is not a valid enumeration member")
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		validation(c, "priority", "value is not a valid enumeration member")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, found := s.drifts[id]
	if !found {
		detail(c, http.StatusNotFound, "Drift not found")
		return
	}

	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.Priority != nil {
		d.Priority = *req.Priority
	}
	switch {
	case req.Unassign:
		d.AssignedToID = nil
		d.AssignedTo = nil
	case req.AssignedToID != nil:
		assignee := *req.AssignedToID
		d.AssignedToID = &assignee
		if a, ok := s.accounts[assignee]; ok {
			r := ref(a.user)
			d.AssignedTo = &r
		}
	}
	if req.Status != nil && *req.Status != d.Status {
		d.Status = *req.Status
		now := s.stamp()
		switch d.Status {
		case models.StatusResolved:
			d.ResolvedAt = &now
		case models.StatusClosed:
			d.ClosedAt = &now
		}
	}
	d.UpdatedAt = s.stamp()
	d.EventCount++

	c.JSON(http.StatusOK, *d)
}

func (s *Server) addComment(c *gin.Context) {
	driftID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CommentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		validation(c, "body", err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		validation(c, "content", "ensure this value has at least 1 characters")
		return
	}

	s.mu.Lock()
	_, found := s.drifts[driftID]
	s.mu.Unlock()
	if !found {
		detail(c, http.StatusNotFound, "Drift not found")
		return
	}

	cm := s.AddComment(models.Comment{DriftID: driftID, AuthorID: c.GetInt64(ctxUserID), Content: req.Content})
	c.JSON(http.StatusCreated, cm)
}

func (s *Server) listComments(c *gin.Context) {
	driftID, ok := pathID(c)
	if !ok {
		return
	}
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)

	s.mu.Lock()
	_, found := s.drifts[driftID]
	var out []models.Comment
	for _, cm := range s.comments {
		if cm.DriftID == driftID {
			out = append(out, *cm)
		}
	}
	s.mu.Unlock()

	if !found {
		detail(c, http.StatusNotFound, "Drift not found")
		return
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, models.CommentList{Comments: page(out, offset, limit), Total: len(out), Limit: limit, Offset: offset})
}

func (s *Server) deleteComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	uid := c.GetInt64(ctxUserID)

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, found := s.comments[id]
	if !found {
		detail(c, http.StatusNotFound, "Comment not found")
		return
	}
	if cm.AuthorID != uid && s.accounts[uid].user.Role != models.RoleAdmin {
		detail(c, http.StatusForbidden, "Not authorized to delete this comment")
		return
	}
	delete(s.comments, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) listNotifications(c *gin.Context) {
	uid := c.GetInt64(ctxUserID)
	unreadOnly := c.Query("unread_only") == "true"
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	s.mu.Lock()
	var out []models.Notification
	unread := 0
	for _, n := range s.notifications {
		if n.UserID != uid {
			continue
		}
		if !n.IsRead {
			unread++
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	c.JSON(http.StatusOK, models.NotificationList{Notifications: page(out, offset, limit), Total: len(out), UnreadCount: unread})
}

func (s *Server) unreadCount(c *gin.Context) {
	uid := c.GetInt64(ctxUserID)

	s.mu.Lock()
	n := 0
	for _, item := range s.notifications {
		if item.UserID == uid && !item.IsRead {
			n++
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, models.UnreadCount{UnreadCount: n})
}

func (s *Server) markRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	uid := c.GetInt64(ctxUserID)

	s.mu.Lock()
	defer s.mu.Unlock()

	n, found := s.notifications[id]
	if !found || n.UserID != uid {
		detail(c, http.StatusNotFound, "Notification not found")
		return
	}
	now := s.stamp()
	n.IsRead = true
	n.ReadAt = &now

	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": gin.H{"id": n.ID, "is_read": true, "read_at": now},
	})
}

func (s *Server) markAllRead(c *gin.Context) {
	uid := c.GetInt64(ctxUserID)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	for _, n := range s.notifications {
		if n.UserID == uid && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
