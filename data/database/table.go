package database

// Collection names used across the stores.
const (
	TableUsers             = "users"
	TableUserSessions      = "user_sessions"
	TableServers           = "servers"
	TableChannels          = "channels"
	TableMessages          = "messages"
	TableCalendarEvents    = "calendar_events"
	TableTasks             = "tasks"
	TableNotes             = "notes"
	TableVoiceParticipants = "voice_participants"
)
