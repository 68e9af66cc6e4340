package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/api/http/handlers"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/observability"
	"github.com/spec-kit/symposium-service/internal/persistence"
	"github.com/spec-kit/symposium-service/internal/repository/sqlite"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

type envelope struct {
	Data    json.RawMessage              `json:"data"`
	Code    string                       `json:"code"`
	Message string                       `json:"message"`
	Errors  []apperrors.ValidationDetail `json:"errors"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	db, err := persistence.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "api.db"), logger)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := sqlite.New(db)

	metrics := observability.NewMetrics()
	bus := events.NewInMemoryBus(logger, metrics)
	t.Cleanup(func() { _ = bus.Close() })
	redis := persistence.NewRedis(config.RedisConfig{}, logger)

	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4}, service.AuthDependencies{Store: store})
	catalog := service.NewCatalogService(service.CatalogDependencies{Store: store, Dispatcher: bus})
	registrations := service.NewRegistrationService(service.RegistrationDependencies{Store: store, Dispatcher: bus})
	certificates := service.NewCertificateService(service.CertificateDependencies{Store: store, Dispatcher: bus})
	exports := service.NewExportService(registrations)
	v := validation.New()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("symposium-service", "test", store, redis, metrics),
		Users:          handlers.NewUsersHandler(authService, catalog, v),
		Symposiums:     handlers.NewSymposiumsHandler(catalog, registrations, exports, v),
		Events:         handlers.NewEventsHandler(catalog, registrations, v),
		Registrations:  handlers.NewRegistrationsHandler(registrations),
		Certificates:   handlers.NewCertificatesHandler(certificates, v),
		AuthMiddleware: auth.NewAuthMiddleware(authService.Tokens(), store),
	})
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp.StatusCode, env
}

// expect performs a request and fails unless the status matches.
func (s *testServer) expect(status int, method, path, token string, body any) envelope {
	s.t.Helper()
	got, env := s.do(method, path, token, body)
	if got != status {
		s.t.Fatalf("%s %s: status = %d, want %d (code=%s message=%s)", method, path, got, status, env.Code, env.Message)
	}
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}

// signup creates an account and returns its id and a session token.
func (s *testServer) signup(name, role string) (string, string) {
	s.t.Helper()
	email := fmt.Sprintf("%s@example.com", name)
	env := s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/users", "", fiber.Map{
		"name": name, "email": email, "password": "secret1", "type": role,
	})
	user := decode[dto.UserResponse](s.t, env)

	req := httptest.NewRequest(nethttp.MethodPost, "/login", bytes.NewReader([]byte(fmt.Sprintf(`{"email":%q,"password":"secret1"}`, email))))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req, -1)
	if err != nil {
		s.t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	var session dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil || session.Token == "" {
		s.t.Fatalf("login response: %v %+v", err, session)
	}
	if session.User.ID != user.ID || string(session.User.Type) != role {
		s.t.Fatalf("login user %+v", session.User)
	}
	return user.ID, session.Token
}

func (s *testServer) createSymposium(token, start, end string) dto.SymposiumResponse {
	s.t.Helper()
	env := s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/symposiums", token, fiber.Map{
		"name": "GopherCon", "description": "Go conference", "start_date": start, "end_date": end, "location": "Lisbon",
	})
	return decode[dto.SymposiumResponse](s.t, env)
}

func (s *testServer) createEvent(token, symposiumID, date string, capacity int) dto.EventResponse {
	s.t.Helper()
	env := s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/events", token, fiber.Map{
		"symposium_id": symposiumID, "name": "Workshop", "description": "hands on", "date": date,
		"start_time": "09:00", "end_time": "12:00", "capacity": capacity, "level": "beginner", "location": "Room 1",
	})
	return decode[dto.EventResponse](s.t, env)
}

func TestRegistrationWorkflowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, organizer := s.signup("olivia", "organizer")
	_, otherOrganizer := s.signup("oscar", "organizer")
	participantID, participant := s.signup("paula", "participant")

	sym := s.createSymposium(organizer, "2030-05-01", "2030-05-03")
	ev := s.createEvent(organizer, sym.ID, "2030-05-02", 10)

	env := s.expect(nethttp.StatusForbidden, nethttp.MethodPost, "/events/"+ev.ID+"/registration", participant, nil)
	if env.Code != apperrors.CodeNotEligible {
		t.Fatalf("event before symposium: code = %s", env.Code)
	}

	env = s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/symposiums/"+sym.ID+"/registration", participant, nil)
	reg := decode[dto.RegistrationResponse](t, env)
	if reg.Status != "pending" || reg.UserID != participantID {
		t.Fatalf("unexpected registration %+v", reg)
	}
	env = s.expect(nethttp.StatusConflict, nethttp.MethodPost, "/symposiums/"+sym.ID+"/registration", participant, nil)
	if env.Code != apperrors.CodeDuplicatePending {
		t.Fatalf("duplicate code = %s", env.Code)
	}

	decidePath := "/symposiums/" + sym.ID + "/registrations/" + reg.ID
	env = s.expect(nethttp.StatusForbidden, nethttp.MethodPut, decidePath, otherOrganizer, fiber.Map{"status": "accepted"})
	if env.Code != apperrors.CodeForbidden {
		t.Fatalf("other organizer code = %s", env.Code)
	}
	pending := decode[[]dto.RegistrationResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/registrations/pending", organizer, nil))
	if len(pending) != 1 || pending[0].ID != reg.ID || pending[0].Status != "pending" {
		t.Fatalf("pending after forbidden decision = %+v", pending)
	}

	env = s.expect(nethttp.StatusBadRequest, nethttp.MethodPut, decidePath, organizer, fiber.Map{"status": "maybe"})
	if env.Code != apperrors.CodeValidation || len(env.Errors) == 0 || env.Errors[0].Field != "status" {
		t.Fatalf("invalid decision response %+v", env)
	}

	reg = decode[dto.RegistrationResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodPut, decidePath, organizer, fiber.Map{"status": "accepted"}))
	if reg.Status != "accepted" || reg.DecidedAt == nil {
		t.Fatalf("accepted registration %+v", reg)
	}
	s.expect(nethttp.StatusOK, nethttp.MethodPut, decidePath, organizer, fiber.Map{"status": "accepted"})
	members := decode[[]dto.ParticipantResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/symposiums/"+sym.ID+"/participants", organizer, nil))
	if len(members) != 1 || members[0].ID != participantID {
		t.Fatalf("symposium participants %+v", members)
	}

	env = s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/events/"+ev.ID+"/registration", participant, nil)
	evReg := decode[dto.RegistrationResponse](t, env)
	evReg = decode[dto.RegistrationResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodPut,
		"/events/"+ev.ID+"/registrations/"+evReg.ID, organizer, fiber.Map{"status": "rejected"}))
	if evReg.Status != "rejected" {
		t.Fatalf("event registration %+v", evReg)
	}
	eventMembers := decode[[]dto.ParticipantResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/events/"+ev.ID+"/participants", organizer, nil))
	if len(eventMembers) != 0 {
		t.Fatalf("event participants %+v", eventMembers)
	}
	env = s.expect(nethttp.StatusConflict, nethttp.MethodPost, "/events/"+ev.ID+"/registration", participant, nil)
	if env.Code != apperrors.CodePreviouslyRejected {
		t.Fatalf("re-request after rejection code = %s", env.Code)
	}

	mine := decode[[]dto.RegistrationResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/registrations/me", participant, nil))
	if len(mine) != 2 {
		t.Fatalf("my registrations %+v", mine)
	}
}

func TestAuthorizationErrorsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, organizer := s.signup("olga", "organizer")
	_, participant := s.signup("pete", "participant")

	s.expect(nethttp.StatusUnauthorized, nethttp.MethodPost, "/symposiums", "", fiber.Map{"name": "x"})
	s.expect(nethttp.StatusUnauthorized, nethttp.MethodGet, "/registrations/me", "not-a-token", nil)

	env := s.expect(nethttp.StatusForbidden, nethttp.MethodPost, "/symposiums", participant, fiber.Map{
		"name": "x", "start_date": "2030-01-01", "end_date": "2030-01-02",
	})
	if env.Message != auth.MsgOrganizerRequired {
		t.Fatalf("message = %q", env.Message)
	}
	s.expect(nethttp.StatusForbidden, nethttp.MethodGet, "/registrations/pending", participant, nil)

	s.expect(nethttp.StatusBadRequest, nethttp.MethodGet, "/symposiums/not-a-uuid", "", nil)
	s.expect(nethttp.StatusNotFound, nethttp.MethodGet, "/symposiums/"+uuid.NewString(), "", nil)
	env = s.expect(nethttp.StatusNotFound, nethttp.MethodGet, "/nowhere", "", nil)
	if env.Code != apperrors.CodeNotFound {
		t.Fatalf("unknown route code = %s", env.Code)
	}

	env = s.expect(nethttp.StatusBadRequest, nethttp.MethodPost, "/users", "", fiber.Map{
		"name": "", "email": "bad", "password": "123", "type": "admin",
	})
	if env.Code != apperrors.CodeValidation || len(env.Errors) != 4 {
		t.Fatalf("signup validation %+v", env)
	}
	env = s.expect(nethttp.StatusConflict, nethttp.MethodPost, "/users", "", fiber.Map{
		"name": "Olga", "email": "olga@example.com", "password": "secret1", "type": "participant",
	})
	if env.Code != apperrors.CodeEmailTaken {
		t.Fatalf("duplicate email code = %s", env.Code)
	}

	sym := s.createSymposium(organizer, "2030-05-01", "2030-05-03")
	s.expect(nethttp.StatusNotFound, nethttp.MethodGet, "/symposiums/"+sym.ID+"/events", "", nil)
	s.createEvent(organizer, sym.ID, "2030-05-01", 5)
	evs := decode[[]dto.EventResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/symposiums/"+sym.ID+"/events", "", nil))
	if len(evs) != 1 || evs[0].Date != "2030-05-01" {
		t.Fatalf("events %+v", evs)
	}
	mySymposiums := decode[[]dto.SymposiumDetailResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/user/symposiums", organizer, nil))
	if len(mySymposiums) != 1 || len(mySymposiums[0].Events) != 1 {
		t.Fatalf("my symposiums %+v", mySymposiums)
	}
	s.expect(nethttp.StatusNoContent, nethttp.MethodDelete, "/events/"+evs[0].ID, organizer, nil)
	s.expect(nethttp.StatusNoContent, nethttp.MethodDelete, "/symposiums/"+sym.ID, organizer, nil)
}

func TestCertificatesOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, organizer := s.signup("ophelia", "organizer")
	participantID, participant := s.signup("pablo", "participant")

	past := s.createSymposium(organizer, "2020-03-01", "2020-03-02")
	future := s.createSymposium(organizer, "2099-03-01", "2099-03-02")

	reg := decode[dto.RegistrationResponse](t, s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/symposiums/"+past.ID+"/registration", participant, nil))
	s.expect(nethttp.StatusOK, nethttp.MethodPut, "/symposiums/"+past.ID+"/registrations/"+reg.ID, organizer, fiber.Map{"status": "accepted"})

	s.expect(nethttp.StatusBadRequest, nethttp.MethodPost, "/certificates/"+future.ID+"/generate", organizer, fiber.Map{"user_id": participantID})
	s.expect(nethttp.StatusForbidden, nethttp.MethodPost, "/certificates/"+past.ID+"/generate", participant, fiber.Map{"user_id": participantID})

	cert := decode[dto.CertificateResponse](t, s.expect(nethttp.StatusCreated, nethttp.MethodPost, "/certificates/"+past.ID+"/generate", organizer, fiber.Map{"user_id": participantID}))
	if cert.Code == "" || cert.UserID != participantID {
		t.Fatalf("certificate %+v", cert)
	}
	s.expect(nethttp.StatusConflict, nethttp.MethodPost, "/certificates/"+past.ID+"/generate", organizer, fiber.Map{"user_id": participantID})

	got := decode[dto.CertificateResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/certificates/"+cert.ID, participant, nil))
	if got.ID != cert.ID {
		t.Fatalf("get certificate %+v", got)
	}
	mine := decode[[]dto.CertificateResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/certificates/me", participant, nil))
	if len(mine) != 1 {
		t.Fatalf("my certificates %+v", mine)
	}

	verdict := decode[dto.CertificateValidationResponse](t, s.expect(nethttp.StatusOK, nethttp.MethodGet, "/validate-certificate/"+cert.Code, "", nil))
	if !verdict.Valid || verdict.ParticipantName != "pablo" || verdict.SymposiumName != past.Name {
		t.Fatalf("validation %+v", verdict)
	}
	s.expect(nethttp.StatusNotFound, nethttp.MethodGet, "/validate-certificate/unknown", "", nil)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.expect(nethttp.StatusOK, nethttp.MethodGet, "/health/live", "", nil)
	s.expect(nethttp.StatusOK, nethttp.MethodGet, "/health/ready", "", nil)
	s.expect(nethttp.StatusOK, nethttp.MethodGet, "/health/metrics", "", nil)
}
