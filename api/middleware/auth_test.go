package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/dkushnir/library-service-api/pkg/auth"
	"github.com/dkushnir/library-service-api/pkg/config"
)

var authTestJWT = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "library-test",
	ExpirationMinutes: 15,
}

type stubSessionChecker struct {
	ok     bool
	err    error
	lastID string
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	s.lastID = accessID
	return s.ok, s.err
}

func mintAuthTestToken(t *testing.T, userID uint, isStaff bool, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(authTestJWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:  userID,
		IsStaff: isStaff,
		JTI:     jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	checker := &stubSessionChecker{ok: true}

	var gotUserID uint
	var gotStaff bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		gotStaff = IsStaffFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Auth(authTestJWT, checker, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/borrowings", nil)
	req.Header.Set("Authorization", "Bearer "+mintAuthTestToken(t, 42, true, "session-42"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected request to pass, got %d", resp.Code)
	}
	if gotUserID != 42 || !gotStaff {
		t.Fatalf("claims not seeded into context: user=%d staff=%v", gotUserID, gotStaff)
	}
	if checker.lastID != "session-42" {
		t.Fatalf("session checked with wrong id %q", checker.lastID)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestJWT, &stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run without credentials")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/borrowings", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestJWT, &stubSessionChecker{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/borrowings", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	handler := Auth(authTestJWT, &stubSessionChecker{ok: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run after logout")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/borrowings", nil)
	req.Header.Set("Authorization", "Bearer "+mintAuthTestToken(t, 42, false, "revoked"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireStaffBlocksReaders(t *testing.T) {
	handler := RequireStaff(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run for non-staff")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
	req = req.WithContext(WithIsStaff(WithUserID(req.Context(), 7), false))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireStaffAllowsStaff(t *testing.T) {
	called := false
	handler := RequireStaff(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
	req = req.WithContext(WithIsStaff(WithUserID(req.Context(), 7), true))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if !called || resp.Code != http.StatusNoContent {
		t.Fatalf("staff request should pass through, got %d", resp.Code)
	}
}
