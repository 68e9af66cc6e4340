package dto

import (
	"time"

	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date or an RFC 3339 timestamp.
func ParseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperrors.NewValidationError("invalid request", []apperrors.ValidationDetail{
		{Field: field, Message: "must be a date in YYYY-MM-DD or RFC 3339 format"},
	})
}

// ParseOptionalDate parses raw when set.
func ParseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := ParseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
