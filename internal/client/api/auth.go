package api

import (
	"context"
	"net/http"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type AuthClient struct {
	c *Client
}

// Bootstrap creates the first administrator on an empty server.
func (a *AuthClient) Bootstrap(ctx context.Context, req models.BootstrapRequest) (*models.BootstrapResponse, error) {
	var out models.BootstrapResponse
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/bootstrap", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/login", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the current token belongs to.
func (a *AuthClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := a.c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
