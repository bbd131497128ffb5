package api

import (
	"context"
	"net/http"

	"github.com/cppla/gossip/models"
)

type postRequest struct {
	ID      int64  `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID int64  `json:"topic_id,omitempty"`
}

// FetchPosts lists the posts of one topic. A null body is an empty list.
func (c *Client) FetchPosts(ctx context.Context, creds Credentials, topicID int64) ([]models.Post, error) {
	var posts []models.Post
	payload := struct {
		TopicID int64 `json:"topic_id"`
	}{topicID}
	if _, err := c.call(ctx, creds, http.MethodPost, "/fetchPosts", payload, &posts, "Failed To Fetch Posts"); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (c *Client) AddPost(ctx context.Context, creds Credentials, topicID int64, title, content string) error {
	_, err := c.call(ctx, creds, http.MethodPost, "/addPost",
		postRequest{Title: title, Content: content, TopicID: topicID}, nil, "Failed To Create Post")
	return err
}

func (c *Client) UpdatePost(ctx context.Context, creds Credentials, id int64, title, content string) error {
	_, err := c.call(ctx, creds, http.MethodPut, "/updatePost",
		postRequest{ID: id, Title: title, Content: content}, nil, "Failed To Update Post")
	return err
}

func (c *Client) DeletePost(ctx context.Context, creds Credentials, id int64) error {
	_, err := c.call(ctx, creds, http.MethodDelete, "/deletePost", idRequest{ID: id}, nil, "Failed To Delete Post")
	return err
}
