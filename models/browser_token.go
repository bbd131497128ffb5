package models

import "time"

// BrowserToken persists a session token for one browser session id.
type BrowserToken struct {
	SID       string    `gorm:"column:sid;primaryKey;size:64" json:"sid"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BrowserToken) TableName() string { return "browser_tokens" }
