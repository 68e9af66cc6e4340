package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

func TestIssueCertificate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	p := f.participant()
	sym := f.symposium(owner)
	f.acceptedInto(owner, p, sym.ID)

	issued := make(chan events.Event, 1)
	if err := f.bus.Subscribe(events.EventCertificateIssued, func(_ context.Context, ev events.Event) error {
		issued <- ev
		return nil
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	cert, err := f.certificates.Issue(ctx, owner, sym.ID, p.UserID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.Code == "" || cert.UserID != p.UserID || !cert.IssuedAt.Equal(f.now) {
		t.Fatalf("unexpected certificate %+v", cert)
	}

	_, err = f.certificates.Issue(ctx, owner, sym.ID, p.UserID)
	expectCode(t, err, apperrors.CodeConflict)

	select {
	case ev := <-issued:
		var payload events.CertificateIssuedPayload
		if err := ev.Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Code != cert.Code || payload.SymposiumID != sym.ID {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("certificate event not delivered")
	}
}

func TestIssueCertificateGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	other := f.organizer()
	member := f.participant()
	outsider := f.participant()
	sym := f.symposium(owner)
	f.acceptedInto(owner, member, sym.ID)

	upcoming, err := f.catalog.CreateSymposium(ctx, owner, SymposiumInput{
		Name:      "Next year",
		StartDate: f.now.AddDate(1, 0, 0),
		EndDate:   f.now.AddDate(1, 0, 2),
	})
	if err != nil {
		t.Fatalf("create upcoming: %v", err)
	}

	tests := []struct {
		name string
		run  func() error
		code string
	}{
		{"participant cannot issue", func() error { _, err := f.certificates.Issue(ctx, member, sym.ID, member.UserID); return err }, apperrors.CodeForbidden},
		{"unknown symposium", func() error { _, err := f.certificates.Issue(ctx, owner, uuid.NewString(), member.UserID); return err }, apperrors.CodeNotFound},
		{"not owner", func() error { _, err := f.certificates.Issue(ctx, other, sym.ID, member.UserID); return err }, apperrors.CodeForbidden},
		{"symposium not ended", func() error { _, err := f.certificates.Issue(ctx, owner, upcoming.ID, member.UserID); return err }, apperrors.CodeValidation},
		{"unknown user", func() error { _, err := f.certificates.Issue(ctx, owner, sym.ID, uuid.NewString()); return err }, apperrors.CodeNotFound},
		{"not a participant", func() error { _, err := f.certificates.Issue(ctx, owner, sym.ID, outsider.UserID); return err }, apperrors.CodeNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCode(t, tt.run(), tt.code)
		})
	}
}

func TestIssueCertificateWaitsForLastDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	p := f.participant()
	sym, err := f.catalog.CreateSymposium(ctx, owner, SymposiumInput{
		Name:      "Closing day",
		StartDate: time.Date(2030, 6, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create symposium: %v", err)
	}
	if _, err := f.catalog.CreateEvent(ctx, owner, EventInput{
		SymposiumID: sym.ID,
		Name:        "Closing keynote",
		Date:        time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   "15:00",
		EndTime:     "17:00",
		Capacity:    50,
		Level:       domain.EventLevelBeginner,
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	f.acceptedInto(owner, p, sym.ID)

	f.now = time.Date(2030, 6, 10, 23, 59, 0, 0, time.UTC)
	_, err = f.certificates.Issue(ctx, owner, sym.ID, p.UserID)
	expectCode(t, err, apperrors.CodeValidation)

	f.now = time.Date(2030, 6, 11, 0, 0, 0, 0, time.UTC)
	if _, err := f.certificates.Issue(ctx, owner, sym.ID, p.UserID); err != nil {
		t.Fatalf("issue after last day: %v", err)
	}
}

func TestIssueCertificateRetriesCodeCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	first := f.participant()
	second := f.participant()
	sym := f.symposium(owner)
	f.acceptedInto(owner, first, sym.ID)
	f.acceptedInto(owner, second, sym.ID)

	codes := []string{"dup-code", "dup-code", "fresh-code"}
	f.certificates.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	if _, err := f.certificates.Issue(ctx, owner, sym.ID, first.UserID); err != nil {
		t.Fatalf("issue first: %v", err)
	}
	cert, err := f.certificates.Issue(ctx, owner, sym.ID, second.UserID)
	if err != nil {
		t.Fatalf("issue second: %v", err)
	}
	if cert.Code != "fresh-code" {
		t.Fatalf("code = %q", cert.Code)
	}
}

func TestCertificateVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	other := f.organizer()
	holder := f.participant()
	stranger := f.participant()
	sym := f.symposium(owner)
	f.acceptedInto(owner, holder, sym.ID)

	cert, err := f.certificates.Issue(ctx, owner, sym.ID, holder.UserID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, tc := range []struct {
		name string
		ok   bool
		get  func() error
	}{
		{"holder", true, func() error { _, err := f.certificates.Get(ctx, holder, cert.ID); return err }},
		{"owner", true, func() error { _, err := f.certificates.Get(ctx, owner, cert.ID); return err }},
		{"other organizer", false, func() error { _, err := f.certificates.Get(ctx, other, cert.ID); return err }},
		{"stranger", false, func() error { _, err := f.certificates.Get(ctx, stranger, cert.ID); return err }},
	} {
		err := tc.get()
		if tc.ok && err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !tc.ok {
			expectCode(t, err, apperrors.CodeForbidden)
		}
	}

	_, err = f.certificates.Get(ctx, holder, uuid.NewString())
	expectCode(t, err, apperrors.CodeNotFound)

	mine, err := f.certificates.ListMine(ctx, holder)
	if err != nil || len(mine) != 1 || mine[0].ID != cert.ID {
		t.Fatalf("list mine: %v %+v", err, mine)
	}
	none, err := f.certificates.ListMine(ctx, stranger)
	if err != nil || len(none) != 0 {
		t.Fatalf("stranger certificates: %v %+v", err, none)
	}
}

func TestValidateCertificateCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.organizer()
	holder := f.participant()
	sym := f.symposium(owner)
	f.acceptedInto(owner, holder, sym.ID)

	cert, err := f.certificates.Issue(ctx, owner, sym.ID, holder.UserID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	result, err := f.certificates.Validate(ctx, cert.Code)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Certificate.ID != cert.ID || result.SymposiumName != sym.Name || result.ParticipantName == "" {
		t.Fatalf("unexpected validation %+v", result)
	}

	_, err = f.certificates.Validate(ctx, "no-such-code")
	expectCode(t, err, apperrors.CodeNotFound)
}
