package model

import "time"

// Server is a named community containing channels; members hold user ids.
type Server struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	Members   []string  `bson:"members" json:"members"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (s *Server) HasMember(userID string) bool {
	for _, m := range s.Members {
		if m == userID {
			return true
		}
	}
	return false
}
