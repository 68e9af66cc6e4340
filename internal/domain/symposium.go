package domain

import "time"

// Symposium is the top-level container of events, owned by one organizer.
type Symposium struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userID organizes the symposium.
func (s *Symposium) OwnedBy(userID string) bool {
	return s != nil && s.OrganizerID == userID
}

// EndedBefore reports whether the symposium's last day is over by t. Dates
// are calendar days in UTC, so the end date itself still counts as running.
func (s *Symposium) EndedBefore(t time.Time) bool {
	return calendarDay(t).After(calendarDay(s.EndDate))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
