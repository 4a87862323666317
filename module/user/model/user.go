package model

import "time"

// User status values. Mutated by presence updates and by session
// creation/logout.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusIdle    = "idle"
)

type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Picture   string    `bson:"picture" json:"picture"`
	Status    string    `bson:"status" json:"status"` // online/offline/idle
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
