package api

import (
	"context"
	"net/http"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type HealthClient struct {
	c *Client
}

func (h *HealthClient) Check(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := h.c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
