package api

import (
	"context"
	"net/http"

	"github.com/cppla/gossip/models"
)

type topicRequest struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type idRequest struct {
	ID int64 `json:"id"`
}

// FetchTopics lists every topic. A null body is an empty list.
func (c *Client) FetchTopics(ctx context.Context, creds Credentials) ([]models.Topic, error) {
	var topics []models.Topic
	if _, err := c.call(ctx, creds, http.MethodGet, "/fetchTopics", nil, &topics, "Failed To Fetch Topics"); err != nil {
		return nil, err
	}
	if topics == nil {
		topics = []models.Topic{}
	}
	return topics, nil
}

func (c *Client) AddTopic(ctx context.Context, creds Credentials, name, description string) error {
	_, err := c.call(ctx, creds, http.MethodPost, "/addTopic",
		topicRequest{Name: name, Description: description}, nil, "Failed To Create Topic")
	return err
}

func (c *Client) UpdateTopic(ctx context.Context, creds Credentials, id int64, name, description string) error {
	_, err := c.call(ctx, creds, http.MethodPut, "/updateTopic",
		topicRequest{ID: id, Name: name, Description: description}, nil, "Failed To Update Topic")
	return err
}

func (c *Client) DeleteTopic(ctx context.Context, creds Credentials, id int64) error {
	_, err := c.call(ctx, creds, http.MethodDelete, "/deleteTopic", idRequest{ID: id}, nil, "Failed To Delete Topic")
	return err
}
