package model

import "time"

// DefaultEventColor is the calendar default when the client sends none.
const DefaultEventColor = "#9F86FF"

type CalendarEvent struct {
	ID          string    `bson:"id" json:"id"`
	ServerID    string    `bson:"server_id" json:"server_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	StartTime   time.Time `bson:"start_time" json:"start_time"`
	EndTime     time.Time `bson:"end_time" json:"end_time"`
	AssignedTo  []string  `bson:"assigned_to" json:"assigned_to"`
	Color       string    `bson:"color" json:"color"`
	ChannelLink *string   `bson:"channel_link,omitempty" json:"channel_link"`
	CreatedBy   string    `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
