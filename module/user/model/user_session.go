package model

import "time"

// UserSession binds an opaque token to a user for a bounded time. A user may
// hold several at once (one per device); each is revoked independently.
type UserSession struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	SessionToken string    `bson:"session_token" json:"session_token"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
