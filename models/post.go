package models

import "time"

// Post is an authored message within a topic, open to comments.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	TopicID   int64     `json:"topic_id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"created_at"`
}

func (p Post) Created() time.Time { return p.CreatedAt.Time }

func (p Post) SearchFields() []string {
	return []string{p.Title, p.Content, p.Username}
}
