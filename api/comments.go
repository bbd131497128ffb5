package api

import (
	"context"
	"net/http"

	"github.com/cppla/gossip/models"
)

type commentRequest struct {
	ID      int64  `json:"id,omitempty"`
	Content string `json:"content"`
	PostID  int64  `json:"post_id,omitempty"`
}

// FetchComments lists the comments of one post. A null body is an empty list.
func (c *Client) FetchComments(ctx context.Context, creds Credentials, postID int64) ([]models.Comment, error) {
	var comments []models.Comment
	payload := struct {
		PostID int64 `json:"post_id"`
	}{postID}
	if _, err := c.call(ctx, creds, http.MethodPost, "/fetchComments", payload, &comments, "Failed To Fetch Comments"); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, creds Credentials, postID int64, content string) error {
	_, err := c.call(ctx, creds, http.MethodPost, "/addComment",
		commentRequest{Content: content, PostID: postID}, nil, "Failed To Post Comment")
	return err
}

func (c *Client) UpdateComment(ctx context.Context, creds Credentials, id int64, content string) error {
	_, err := c.call(ctx, creds, http.MethodPut, "/updateComment",
		commentRequest{ID: id, Content: content}, nil, "Failed To Update Comment")
	return err
}

func (c *Client) DeleteComment(ctx context.Context, creds Credentials, id int64) error {
	_, err := c.call(ctx, creds, http.MethodDelete, "/deleteComment", idRequest{ID: id}, nil, "Failed To Delete Comment")
	return err
}
