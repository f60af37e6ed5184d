package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

// UsersClient covers the admin-only user endpoints.
type UsersClient struct {
	c *Client
}

func (u *UsersClient) Create(ctx context.Context, req models.UserCreate) (*models.UserCreated, error) {
	var out models.UserCreated
	if err := u.c.do(ctx, http.MethodPost, "/api/users/", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *UsersClient) List(ctx context.Context) (*models.UserList, error) {
	var out models.UserList
	if err := u.c.do(ctx, http.MethodGet, "/api/users/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *UsersClient) Get(ctx context.Context, id int64) (*models.User, error) {
	var out models.User
	if err := u.c.do(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
