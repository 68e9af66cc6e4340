package domain

import "time"

// EventLevel grades the audience an event targets.
type EventLevel string

const (
	EventLevelBeginner     EventLevel = "beginner"
	EventLevelIntermediate EventLevel = "intermediate"
	EventLevelAdvanced     EventLevel = "advanced"
)

// Valid reports whether l is a known level.
func (l EventLevel) Valid() bool {
	switch l {
	case EventLevelBeginner, EventLevelIntermediate, EventLevelAdvanced:
		return true
	}
	return false
}

// Event is a scheduled session nested under a symposium.
// StartTime and EndTime are wall-clock "HH:MM" values on Date.
type Event struct {
	ID          string
	SymposiumID string
	Name        string
	Description string
	Date        time.Time
	StartTime   string
	EndTime     string
	Capacity    int
	Level       EventLevel
	Location    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
