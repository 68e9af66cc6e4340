package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/symposium-service/internal/domain"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleOrganizer}

	token, exp, err := tm.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if d := time.Until(exp); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("unexpected expiry in %v", d)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != user.Email || claims.Type != domain.RoleOrganizer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	user := &domain.User{ID: "u1", Role: domain.RoleParticipant}

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := expired.GenerateToken(user)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := tm.ParseToken(token); err == nil {
			t.Fatal("expected expired token to fail")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, _ := NewTokenManager("other", time.Hour).GenerateToken(user)
		if _, err := tm.ParseToken(token); err == nil {
			t.Fatal("expected signature failure")
		}
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"})
		raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := tm.ParseToken(raw); err == nil {
			t.Fatal("expected none algorithm to fail")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tm.ParseToken("not.a.token"); err == nil {
			t.Fatal("expected parse failure")
		}
	})
}

func TestAuthorize(t *testing.T) {
	organizer := domain.AuthContext{UserID: "o1", Role: domain.RoleOrganizer}
	participant := domain.AuthContext{UserID: "p1", Role: domain.RoleParticipant}

	if err := Authorize(organizer, domain.RoleOrganizer); err != nil {
		t.Fatalf("organizer rejected: %v", err)
	}
	err := Authorize(participant, domain.RoleOrganizer)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if apperrors.ToDomainError(err).Message != MsgOrganizerRequired {
		t.Fatalf("message = %q", apperrors.ToDomainError(err).Message)
	}
	if err := Authorize(domain.AuthContext{}); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := Authorize(participant); err != nil {
		t.Fatalf("authenticated caller rejected: %v", err)
	}
}

func TestAuthorizeOwner(t *testing.T) {
	sym := &domain.Symposium{ID: "s1", OrganizerID: "o1"}
	tests := []struct {
		name  string
		actor domain.AuthContext
		sym   *domain.Symposium
		ok    bool
	}{
		{name: "owner", actor: domain.AuthContext{UserID: "o1", Role: domain.RoleOrganizer}, sym: sym, ok: true},
		{name: "other organizer", actor: domain.AuthContext{UserID: "o2", Role: domain.RoleOrganizer}, sym: sym},
		{name: "anonymous", actor: domain.AuthContext{}, sym: &domain.Symposium{ID: "s2"}},
		{name: "nil symposium", actor: domain.AuthContext{UserID: "o1", Role: domain.RoleOrganizer}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeOwner(tt.actor, tt.sym)
			if tt.ok {
				if err != nil {
					t.Fatalf("owner rejected: %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, apperrors.CodeForbidden) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hashed, "s3cret-pass"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
