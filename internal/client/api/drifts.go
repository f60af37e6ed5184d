package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type DriftsClient struct {
	c *Client
}

func driftPath(id int64) string {
	return "/api/drifts/" + strconv.FormatInt(id, 10)
}

func (d *DriftsClient) Create(ctx context.Context, req models.DriftCreate) (*models.Drift, error) {
	var out models.Drift
	if err := d.c.do(ctx, http.MethodPost, "/api/drifts/", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns one page of drifts matching filter.
func (d *DriftsClient) List(ctx context.Context, filter models.DriftFilter) (*models.DriftList, error) {
	var out models.DriftList
	if err := d.c.do(ctx, http.MethodGet, "/api/drifts/", nil, filter.Params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DriftsClient) Get(ctx context.Context, id int64) (*models.Drift, error) {
	var out models.Drift
	if err := d.c.do(ctx, http.MethodGet, driftPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update sends a partial update; only non-nil fields are transmitted.
func (d *DriftsClient) Update(ctx context.Context, id int64, req models.DriftUpdate) (*models.Drift, error) {
	var out models.Drift
	if err := d.c.do(ctx, http.MethodPatch, driftPath(id), req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
