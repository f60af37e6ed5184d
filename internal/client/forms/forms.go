// Package forms holds the input forms of the terminal screens and their
// local validation. A form that fails validation is never submitted.
package forms

import (
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate trims the username and checks the form.
func (f *LoginForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	return check(f)
}

func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.Password}
}

// BootstrapForm creates the first administrator.
type BootstrapForm struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,loose_email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (f *BootstrapForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)
	return check(f)
}

func (f BootstrapForm) Request() models.BootstrapRequest {
	return models.BootstrapRequest{Username: f.Username, Email: f.Email, FullName: f.FullName, Password: f.Password}
}

// Login returns the credentials used right after bootstrap.
func (f BootstrapForm) Login() LoginForm {
	return LoginForm{Username: f.Username, Password: f.Password}
}

// DriftForm backs both the create and the edit screen. Status is only
// offered when editing.
type DriftForm struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	Priority     models.Priority `json:"priority" validate:"required,oneof=low medium high critical"`
	Status       models.Status   `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
	AssignedToID *int64          `json:"assigned_to_id"`
}

// NewDriftForm returns an empty create form with medium priority.
func NewDriftForm() DriftForm {
	return DriftForm{Priority: models.PriorityMedium}
}

// DriftFormFrom pre-fills the edit form from a drift.
func DriftFormFrom(d models.Drift) DriftForm {
	f := DriftForm{
		Title:       d.Title,
		Description: d.Description,
		Priority:    d.Priority,
		Status:      d.Status,
	}
	if f.Priority == "" {
		f.Priority = models.PriorityMedium
	}
	if d.AssignedToID != nil {
		id := *d.AssignedToID
		f.AssignedToID = &id
	}
	return f
}

func (f *DriftForm) Validate() FieldErrors {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	return check(f)
}

func (f DriftForm) CreateRequest() models.DriftCreate {
	return models.DriftCreate{
		Title:        f.Title,
		Description:  f.Description,
		Priority:     f.Priority,
		AssignedToID: f.AssignedToID,
	}
}

// UpdateRequest carries only the fields that differ from orig.
func (f DriftForm) UpdateRequest(orig models.Drift) models.DriftUpdate {
	var u models.DriftUpdate
	if f.Title != orig.Title {
		title := f.Title
		u.Title = &title
	}
	if f.Description != orig.Description {
		desc := f.Description
		u.Description = &desc
	}
	if f.Priority != orig.Priority {
		p := f.Priority
		u.Priority = &p
	}
	if f.Status != "" && f.Status != orig.Status {
		s := f.Status
		u.Status = &s
	}
	switch {
	case f.AssignedToID == nil:
		u.Unassign = orig.AssignedToID != nil
	case orig.AssignedToID == nil || *orig.AssignedToID != *f.AssignedToID:
		id := *f.AssignedToID
		u.AssignedToID = &id
	}
	return u
}

// UserForm is the admin "create user" form.
type UserForm struct {
	Username string      `json:"username" validate:"required"`
	Email    string      `json:"email" validate:"required"`
	FullName string      `json:"full_name" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"required,oneof=user admin"`
}

func NewUserForm() UserForm {
	return UserForm{Role: models.RoleUser}
}

func (f *UserForm) Validate() FieldErrors {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.FullName = strings.TrimSpace(f.FullName)
	return check(f)
}

// Request builds the create body; new accounts start active.
func (f UserForm) Request() models.UserCreate {
	return models.UserCreate{
		Username: f.Username,
		Email:    f.Email,
		FullName: f.FullName,
		Password: f.Password,
		Role:     f.Role,
		IsActive: true,
	}
}

type CommentForm struct {
	Content string `json:"content" validate:"required"`
}

func (f *CommentForm) Validate() FieldErrors {
	f.Content = strings.TrimSpace(f.Content)
	return check(f)
}
