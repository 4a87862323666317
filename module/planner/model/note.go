package model

import "time"

// Note holds markdown content; collaborative notes are editable by any
// server member.
type Note struct {
	ID            string    `bson:"id" json:"id"`
	ServerID      string    `bson:"server_id" json:"server_id"`
	Title         string    `bson:"title" json:"title"`
	Content       string    `bson:"content" json:"content"`
	Collaborative bool      `bson:"collaborative" json:"collaborative"`
	CreatedBy     string    `bson:"created_by" json:"created_by"`
	UpdatedBy     string    `bson:"updated_by" json:"updated_by"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
