package models

import "time"

// Topic is a named discussion category containing posts.
type Topic struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	CreatedAt   Timestamp `json:"created_at"`
}

func (t Topic) Created() time.Time { return t.CreatedAt.Time }

func (t Topic) SearchFields() []string {
	return []string{t.Name, t.Description, t.Username}
}
