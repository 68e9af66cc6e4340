package domain

import (
	"errors"
	"testing"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		raw     string
		want    RegistrationStatus
		wantErr bool
	}{
		{raw: "accepted", want: RegistrationAccepted},
		{raw: "rejected", want: RegistrationRejected},
		{raw: "pending", wantErr: true},
		{raw: "ACCEPTED", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDecision(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDecision) {
					t.Fatalf("expected ErrInvalidDecision, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistrationStatusDecide(t *testing.T) {
	tests := []struct {
		name        string
		from        RegistrationStatus
		decision    RegistrationStatus
		wantNext    RegistrationStatus
		wantChanged bool
		wantErr     error
	}{
		{name: "pending to accepted", from: RegistrationPending, decision: RegistrationAccepted, wantNext: RegistrationAccepted, wantChanged: true},
		{name: "pending to rejected", from: RegistrationPending, decision: RegistrationRejected, wantNext: RegistrationRejected, wantChanged: true},
		{name: "accept twice", from: RegistrationAccepted, decision: RegistrationAccepted, wantNext: RegistrationAccepted},
		{name: "reject twice", from: RegistrationRejected, decision: RegistrationRejected, wantNext: RegistrationRejected},
		{name: "accepted is terminal", from: RegistrationAccepted, decision: RegistrationRejected, wantNext: RegistrationAccepted, wantErr: ErrRegistrationDecided},
		{name: "rejected is terminal", from: RegistrationRejected, decision: RegistrationAccepted, wantNext: RegistrationRejected, wantErr: ErrRegistrationDecided},
		{name: "pending is not a decision", from: RegistrationPending, decision: RegistrationPending, wantNext: RegistrationPending, wantErr: ErrInvalidDecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, changed, err := tt.from.Decide(tt.decision)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if next != tt.wantNext || changed != tt.wantChanged {
				t.Fatalf("got (%q, %v), want (%q, %v)", next, changed, tt.wantNext, tt.wantChanged)
			}
		})
	}
}

func TestRegistrationTarget(t *testing.T) {
	sym := NewSymposiumRegistration("u1", "s1")
	if kind, id := sym.Target(); kind != TargetSymposium || id != "s1" {
		t.Fatalf("unexpected target %q %q", kind, id)
	}
	if !sym.BelongsToSymposium("s1") || sym.BelongsToEvent("s1") {
		t.Fatal("symposium registration reported wrong ownership")
	}

	ev := NewEventRegistration("u1", "e1")
	if kind, id := ev.Target(); kind != TargetEvent || id != "e1" {
		t.Fatalf("unexpected target %q %q", kind, id)
	}
	if ev.Status != RegistrationPending {
		t.Fatalf("new registration status = %q", ev.Status)
	}
}
