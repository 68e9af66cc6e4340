// Package storetest holds behavior every repository.Store implementation
// must share. Driver packages run it from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/repository"
)

// Opener returns an empty, migrated store for one test.
type Opener func(t *testing.T) repository.Store

// Run executes the shared store tests against open.
func Run(t *testing.T, open Opener) {
	tests := []struct {
		name string
		run  func(*testing.T, Opener)
	}{
		{"UserEmailIsUnique", testUserEmailIsUnique},
		{"ConcurrentDuplicateRegistrationsStoreOneRow", testConcurrentDuplicateRegistrationsStoreOneRow},
		{"UpdateStatusIsConditional", testUpdateStatusIsConditional},
		{"ParticipantAddIsIdempotent", testParticipantAddIsIdempotent},
		{"ListPendingByOrganizer", testListPendingByOrganizer},
		{"WithTxRollsBack", testWithTxRollsBack},
		{"DeleteSymposiumCascadesRegistrations", testDeleteSymposiumCascadesRegistrations},
		{"LockedCapacityCheckAdmitsUpToCapacity", testLockedCapacityCheckAdmitsUpToCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, open)
		})
	}
}

func seedUser(t *testing.T, s repository.Store, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func seedSymposium(t *testing.T, s repository.Store, organizerID string) *domain.Symposium {
	t.Helper()
	start := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	sym := &domain.Symposium{Name: "GopherCon", StartDate: start, EndDate: start.AddDate(0, 0, 2), OrganizerID: organizerID}
	if err := s.Symposiums().Create(context.Background(), sym); err != nil {
		t.Fatalf("create symposium: %v", err)
	}
	return sym
}

func seedEvent(t *testing.T, s repository.Store, symposiumID string) *domain.Event {
	t.Helper()
	ev := &domain.Event{
		SymposiumID: symposiumID,
		Name:        "Workshop",
		Date:        time.Date(2030, 5, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "11:00",
		Capacity:    10,
		Level:       domain.EventLevelBeginner,
	}
	if err := s.Events().Create(context.Background(), ev); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

func testUserEmailIsUnique(t *testing.T, open Opener) {
	s := open(t)
	seedUser(t, s, "ana@example.com", domain.RoleOrganizer)

	err := s.Users().Create(context.Background(), &domain.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: domain.RoleParticipant})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := s.Users().GetByEmail(context.Background(), "ANA@example.com")
	if err != nil {
		t.Fatalf("lookup by email: %v", err)
	}
	if got.Role != domain.RoleOrganizer {
		t.Fatalf("role = %q", got.Role)
	}

	if _, err := s.Users().GetByID(context.Background(), uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testConcurrentDuplicateRegistrationsStoreOneRow(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	user := seedUser(t, s, "user@example.com", domain.RoleParticipant)
	sym := seedSymposium(t, s, org.ID)

	const attempts = 20
	var created, conflicts, failures int32
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			err := s.Registrations().Create(ctx, domain.NewSymposiumRegistration(user.ID, sym.ID))
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case errors.Is(err, repository.ErrConflict):
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Logf("unexpected error: %v", err)
				atomic.AddInt32(&failures, 1)
			}
		}()
	}
	wg.Wait()

	if created != 1 || conflicts != attempts-1 || failures != 0 {
		t.Fatalf("created=%d conflicts=%d failures=%d", created, conflicts, failures)
	}
	regs, err := s.Registrations().ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected 1 stored registration, got %d", len(regs))
	}
}

func testUpdateStatusIsConditional(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	user := seedUser(t, s, "user@example.com", domain.RoleParticipant)
	sym := seedSymposium(t, s, org.ID)

	reg := domain.NewSymposiumRegistration(user.ID, sym.ID)
	if err := s.Registrations().Create(ctx, reg); err != nil {
		t.Fatalf("create: %v", err)
	}
	decidedAt := time.Now()
	if err := s.Registrations().UpdateStatus(ctx, reg.ID, domain.RegistrationPending, domain.RegistrationAccepted, decidedAt); err != nil {
		t.Fatalf("accept: %v", err)
	}
	err := s.Registrations().UpdateStatus(ctx, reg.ID, domain.RegistrationPending, domain.RegistrationRejected, decidedAt)
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict on stale transition, got %v", err)
	}

	got, err := s.Registrations().GetByID(ctx, reg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.RegistrationAccepted || got.DecidedAt == nil {
		t.Fatalf("unexpected registration %+v", got)
	}
	if got.EventID != nil || got.SymposiumID == nil || *got.SymposiumID != sym.ID {
		t.Fatalf("target not preserved: %+v", got)
	}
}

func testParticipantAddIsIdempotent(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	user := seedUser(t, s, "user@example.com", domain.RoleParticipant)
	sym := seedSymposium(t, s, org.ID)
	ev := seedEvent(t, s, sym.ID)

	for i := 0; i < 3; i++ {
		if err := s.Participants().AddToSymposium(ctx, user.ID, sym.ID, time.Now()); err != nil {
			t.Fatalf("add to symposium: %v", err)
		}
		if err := s.Participants().AddToEvent(ctx, user.ID, ev.ID, time.Now()); err != nil {
			t.Fatalf("add to event: %v", err)
		}
	}

	members, err := s.Participants().ListBySymposium(ctx, sym.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 1 || members[0].User.ID != user.ID {
		t.Fatalf("unexpected members %+v", members)
	}
	n, err := s.Participants().CountByEvent(ctx, ev.ID)
	if err != nil || n != 1 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
	ok, err := s.Participants().IsSymposiumParticipant(ctx, user.ID, sym.ID)
	if err != nil || !ok {
		t.Fatalf("participant = %v, err = %v", ok, err)
	}
}

func testListPendingByOrganizer(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	other := seedUser(t, s, "other@example.com", domain.RoleOrganizer)
	mine := seedSymposium(t, s, org.ID)
	theirs := seedSymposium(t, s, other.ID)
	ev := seedEvent(t, s, mine.ID)

	var users []*domain.User
	for i := 0; i < 3; i++ {
		users = append(users, seedUser(t, s, fmt.Sprintf("p%d@example.com", i), domain.RoleParticipant))
	}

	first := domain.NewSymposiumRegistration(users[0].ID, mine.ID)
	second := domain.NewEventRegistration(users[1].ID, ev.ID)
	foreign := domain.NewSymposiumRegistration(users[2].ID, theirs.ID)
	decided := domain.NewSymposiumRegistration(users[2].ID, mine.ID)
	for _, reg := range []*domain.Registration{first, second, foreign, decided} {
		if err := s.Registrations().Create(ctx, reg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := s.Registrations().UpdateStatus(ctx, decided.ID, domain.RegistrationPending, domain.RegistrationRejected, time.Now()); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, err := s.Registrations().ListPendingByOrganizer(ctx, org.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatalf("unexpected order: %s, %s", pending[0].ID, pending[1].ID)
	}
}

func testWithTxRollsBack(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Users().Create(ctx, &domain.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleParticipant}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Users().GetByEmail(ctx, "a@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func testDeleteSymposiumCascadesRegistrations(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	user := seedUser(t, s, "user@example.com", domain.RoleParticipant)
	sym := seedSymposium(t, s, org.ID)

	reg := domain.NewSymposiumRegistration(user.ID, sym.ID)
	if err := s.Registrations().Create(ctx, reg); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Symposiums().Delete(ctx, sym.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Registrations().GetByID(ctx, reg.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected cascade, got %v", err)
	}
	if err := s.Symposiums().Delete(ctx, sym.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

var errEventFull = errors.New("event full")

func testLockedCapacityCheckAdmitsUpToCapacity(t *testing.T, open Opener) {
	s := open(t)
	ctx := context.Background()
	org := seedUser(t, s, "org@example.com", domain.RoleOrganizer)
	sym := seedSymposium(t, s, org.ID)
	ev := seedEvent(t, s, sym.ID)
	ev.Capacity = 2
	if err := s.Events().Update(ctx, ev); err != nil {
		t.Fatalf("update capacity: %v", err)
	}
	if _, err := s.Events().LockByID(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	const attempts = 8
	var users []*domain.User
	for i := 0; i < attempts; i++ {
		users = append(users, seedUser(t, s, fmt.Sprintf("seat%d@example.com", i), domain.RoleParticipant))
	}

	var admitted, full, failures int32
	var wg sync.WaitGroup
	wg.Add(attempts)
	for _, u := range users {
		go func(userID string) {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx repository.Store) error {
				locked, err := tx.Events().LockByID(ctx, ev.ID)
				if err != nil {
					return err
				}
				joined, err := tx.Participants().CountByEvent(ctx, ev.ID)
				if err != nil {
					return err
				}
				if joined >= locked.Capacity {
					return errEventFull
				}
				return tx.Participants().AddToEvent(ctx, userID, ev.ID, time.Now())
			})
			switch {
			case err == nil:
				atomic.AddInt32(&admitted, 1)
			case errors.Is(err, errEventFull):
				atomic.AddInt32(&full, 1)
			default:
				t.Logf("unexpected error: %v", err)
				atomic.AddInt32(&failures, 1)
			}
		}(u.ID)
	}
	wg.Wait()

	if admitted != 2 || full != attempts-2 || failures != 0 {
		t.Fatalf("admitted=%d full=%d failures=%d", admitted, full, failures)
	}
	n, err := s.Participants().CountByEvent(ctx, ev.ID)
	if err != nil || n != 2 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
}
