package models

import "time"

// Identity is what the session token says about the current user.
type Identity struct {
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// Owns reports whether the identity authored an entity with the given author id.
// The zero identity owns nothing.
func (i Identity) Owns(authorID int64) bool {
	return i.UserID != 0 && i.UserID == authorID
}

// Expired reports whether the identity's expiry is at or before now.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
