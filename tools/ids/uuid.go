package ids

import "github.com/google/uuid"

// UUID returns a random v4 uuid string, the id format of every persisted
// record (users, servers, channels, messages, events, tasks, notes).
func UUID() string {
	return uuid.NewString()
}
