package domain

import "time"

// Participation records accepted membership of a user in a symposium or event.
type Participation struct {
	User     User
	JoinedAt time.Time
}
