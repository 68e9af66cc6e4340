package domain

import (
	"testing"
	"time"
)

func TestSymposiumEndedBefore(t *testing.T) {
	sym := &Symposium{EndDate: time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)}
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "day before", at: time.Date(2030, 6, 9, 23, 0, 0, 0, time.UTC)},
		{name: "first second of last day", at: time.Date(2030, 6, 10, 0, 0, 1, 0, time.UTC)},
		{name: "late on last day", at: time.Date(2030, 6, 10, 23, 59, 59, 0, time.UTC)},
		{name: "next day", at: time.Date(2030, 6, 11, 0, 0, 0, 0, time.UTC), want: true},
		{name: "local midnight ahead of UTC", at: time.Date(2030, 6, 11, 0, 30, 0, 0, time.FixedZone("CET", 3600))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sym.EndedBefore(tt.at); got != tt.want {
				t.Fatalf("EndedBefore(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestSymposiumOwnedBy(t *testing.T) {
	sym := &Symposium{OrganizerID: "o1"}
	if !sym.OwnedBy("o1") || sym.OwnedBy("o2") {
		t.Fatal("ownership mismatch")
	}
	var missing *Symposium
	if missing.OwnedBy("o1") {
		t.Fatal("nil symposium reported an owner")
	}
}
