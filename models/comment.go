package models

import "time"

// Comment represents a reply to a post.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"created_at"`
}

func (c Comment) Created() time.Time { return c.CreatedAt.Time }

func (c Comment) SearchFields() []string {
	return []string{c.Content, c.Username}
}
