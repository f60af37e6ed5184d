package models

import "strconv"

// Comment is append-only from the client's point of view; the only
// mutation is deletion.
type Comment struct {
	ID        int64     `json:"id"`
	DriftID   int64     `json:"drift_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Author    *UserRef  `json:"author,omitempty"`
}

func (c Comment) AuthorName() string {
	if c.Author == nil {
		return "user #" + strconv.FormatInt(c.AuthorID, 10)
	}
	return c.Author.DisplayName()
}

type CommentCreate struct {
	DriftID int64  `json:"drift_id"`
	Content string `json:"content"`
}

type CommentList struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// Page is a limit/offset pair; zero values are omitted.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) Params() map[string]string {
	out := map[string]string{}
	if p.Limit > 0 {
		out["limit"] = strconv.Itoa(p.Limit)
	}
	if p.Offset > 0 {
		out["offset"] = strconv.Itoa(p.Offset)
	}
	return out
}
