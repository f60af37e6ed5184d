package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
)

type CommentsClient struct {
	c *Client
}

func (cc *CommentsClient) Add(ctx context.Context, driftID int64, content string) (*models.Comment, error) {
	var out models.Comment
	body := models.CommentCreate{DriftID: driftID, Content: content}
	if err := cc.c.do(ctx, http.MethodPost, "/api/comments/"+strconv.FormatInt(driftID, 10), body, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CommentsClient) List(ctx context.Context, driftID int64, page models.Page) (*models.CommentList, error) {
	var out models.CommentList
	if err := cc.c.do(ctx, http.MethodGet, "/api/comments/"+strconv.FormatInt(driftID, 10), nil, page.Params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a comment. The server answers 204 with no body.
func (cc *CommentsClient) Delete(ctx context.Context, id int64) error {
	return cc.c.do(ctx, http.MethodDelete, "/api/comments/comment/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
