package model

import "time"

const (
	ChannelText  = "text"
	ChannelVoice = "voice"
	ChannelVideo = "video"
)

type Channel struct {
	ID        string    `bson:"id" json:"id"`
	ServerID  string    `bson:"server_id" json:"server_id"`
	Name      string    `bson:"name" json:"name"`
	Type      string    `bson:"type" json:"type"` // text/voice/video
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
