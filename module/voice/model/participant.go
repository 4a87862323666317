package model

import "time"

// VoiceParticipant is the persisted record of a user sitting in a voice or
// video channel. Media never touches this backend; the row only drives the
// participant list and signaling targets.
type VoiceParticipant struct {
	ID             string    `bson:"id" json:"id"`
	ChannelID      string    `bson:"channel_id" json:"channel_id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	IsMuted        bool      `bson:"is_muted" json:"is_muted"`
	IsVideoEnabled bool      `bson:"is_video_enabled" json:"is_video_enabled"`
	JoinedAt       time.Time `bson:"joined_at" json:"joined_at"`
}
