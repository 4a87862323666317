package model

import "time"

// Message belongs to a channel. ParentID threads replies under another
// message; Reactions maps emoji -> user ids that reacted.
type Message struct {
	ID        string              `bson:"id" json:"id"`
	ChannelID string              `bson:"channel_id" json:"channel_id"`
	UserID    string              `bson:"user_id" json:"user_id"`
	Content   string              `bson:"content" json:"content"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	Edited    bool                `bson:"edited" json:"edited"`
	Reactions map[string][]string `bson:"reactions" json:"reactions"`
	ParentID  *string             `bson:"parent_id,omitempty" json:"parent_id"`
	Starred   bool                `bson:"starred" json:"starred"`
}
