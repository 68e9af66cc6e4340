package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/cache"
	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/persistence"
	"github.com/spec-kit/symposium-service/internal/repository"
	"github.com/spec-kit/symposium-service/internal/repository/sqlite"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

var userSeq atomic.Int64

type fixture struct {
	t             *testing.T
	store         repository.Store
	bus           *events.Bus
	now           time.Time
	auth          *AuthService
	catalog       *CatalogService
	registrations *RegistrationService
	certificates  *CertificateService
	exports       *ExportService
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithCache(t, nil)
}

func newFixtureWithCache(t *testing.T, helper *cache.CacheHelper) *fixture {
	t.Helper()
	db, err := persistence.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "service.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewInMemoryBus(zap.NewNop(), nil)
	t.Cleanup(func() { _ = bus.Close() })

	f := &fixture{
		t:     t,
		store: sqlite.New(db),
		bus:   bus,
		now:   time.Date(2030, 6, 10, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }

	f.auth = NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}, AuthDependencies{Store: f.store})
	f.catalog = NewCatalogService(CatalogDependencies{Store: f.store, Cache: helper, Dispatcher: bus})
	f.registrations = NewRegistrationService(RegistrationDependencies{Store: f.store, Dispatcher: bus, Clock: clock})
	f.certificates = NewCertificateService(CertificateDependencies{Store: f.store, Cache: helper, Dispatcher: bus, Clock: clock})
	f.exports = NewExportService(f.registrations)
	return f
}

func (f *fixture) user(role domain.Role) domain.AuthContext {
	f.t.Helper()
	n := userSeq.Add(1)
	u, err := f.auth.Signup(context.Background(), SignupInput{
		Name:     fmt.Sprintf("%s %d", role, n),
		Email:    fmt.Sprintf("%s%d@example.com", role, n),
		Password: "password",
		Role:     role,
	})
	if err != nil {
		f.t.Fatalf("signup: %v", err)
	}
	return domain.AuthContext{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) organizer() domain.AuthContext   { return f.user(domain.RoleOrganizer) }
func (f *fixture) participant() domain.AuthContext { return f.user(domain.RoleParticipant) }

// symposium creates a symposium that ran from May 1st to May 3rd 2030.
func (f *fixture) symposium(owner domain.AuthContext) *domain.Symposium {
	f.t.Helper()
	start := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	sym, err := f.catalog.CreateSymposium(context.Background(), owner, SymposiumInput{
		Name:      "GopherCon",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Location:  "Lisbon",
	})
	if err != nil {
		f.t.Fatalf("create symposium: %v", err)
	}
	return sym
}

func (f *fixture) event(owner domain.AuthContext, symposiumID string, capacity int) *domain.Event {
	f.t.Helper()
	ev, err := f.catalog.CreateEvent(context.Background(), owner, EventInput{
		SymposiumID: symposiumID,
		Name:        "Concurrency workshop",
		Date:        time.Date(2030, 5, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "12:00",
		Capacity:    capacity,
		Level:       domain.EventLevelIntermediate,
	})
	if err != nil {
		f.t.Fatalf("create event: %v", err)
	}
	return ev
}

// acceptedInto registers p into symposium and accepts it.
func (f *fixture) acceptedInto(owner, p domain.AuthContext, symposiumID string) *domain.Registration {
	f.t.Helper()
	ctx := context.Background()
	reg, err := f.registrations.RequestSymposiumRegistration(ctx, p, symposiumID)
	if err != nil {
		f.t.Fatalf("request: %v", err)
	}
	reg, err = f.registrations.DecideSymposiumRegistration(ctx, owner, symposiumID, reg.ID, "accepted")
	if err != nil {
		f.t.Fatalf("accept: %v", err)
	}
	return reg
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.HasCode(err, code) {
		t.Fatalf("expected %s, got %v", code, err)
	}
}
