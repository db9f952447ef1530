package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

func runSession(t *testing.T, sc *SessionCookie, req *http.Request) string {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	called := false
	handler := Session(sc)(func(c echo.Context) error {
		called = true
		got = SessionToken(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got
}

func TestSession_ValidCookie(t *testing.T) {
	sc := NewSessionCookie("session", "secret", false)
	value, err := sc.Encode("tok-123", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: value})

	if got := runSession(t, sc, req); got != "tok-123" {
		t.Fatalf("expected tok-123, got %q", got)
	}
}

func TestSession_BearerHeader(t *testing.T) {
	sc := NewSessionCookie("session", "secret", false)
	value, _ := sc.Encode("tok-456", time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+value)

	if got := runSession(t, sc, req); got != "tok-456" {
		t.Fatalf("expected tok-456, got %q", got)
	}
}

func TestSession_AnonymousWithoutCookie(t *testing.T) {
	sc := NewSessionCookie("session", "secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := runSession(t, sc, req); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}
}

func TestSession_RejectsForeignSignature(t *testing.T) {
	other := NewSessionCookie("session", "other-secret", false)
	value, _ := other.Encode("tok-789", time.Now().Add(time.Hour))

	sc := NewSessionCookie("session", "secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: value})

	if got := runSession(t, sc, req); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}
}

func TestSession_RejectsExpiredAndGarbage(t *testing.T) {
	sc := NewSessionCookie("session", "secret", false)
	expired, _ := sc.Encode("tok-old", time.Now().Add(-time.Minute))

	for _, value := range []string{expired, "not-a-jwt", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: value})
		if got := runSession(t, sc, req); got != "" {
			t.Fatalf("expected anonymous for %q, got %q", value, got)
		}
	}
}

func TestSession_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		ID:        "tok-512",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	value, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sc := NewSessionCookie("session", "secret", false)
	if _, err := sc.Decode(value); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}
}

func TestSessionCookie_WriteAndClear(t *testing.T) {
	sc := NewSessionCookie("session", "secret", true)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	sc.Write(c, "v1", time.Now().Add(time.Hour), false)
	cookie := rec.Result().Cookies()[0]
	if cookie.Value != "v1" || !cookie.HttpOnly || !cookie.Secure || cookie.MaxAge != 0 {
		t.Fatalf("unexpected session cookie: %+v", cookie)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	sc.Write(c, "v2", time.Now().Add(48*time.Hour), true)
	cookie = rec.Result().Cookies()[0]
	if cookie.MaxAge <= 0 {
		t.Fatalf("expected persistent cookie, got %+v", cookie)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	sc.Clear(c)
	cookie = rec.Result().Cookies()[0]
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookie)
	}
}

func TestRequestID_PropagatesToContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	handler := RequestID()(func(c echo.Context) error {
		got = domain.RequestIDFrom(c.Request().Context())
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}
	if rec.Header().Get(echo.HeaderXRequestID) != "req-42" {
		t.Fatalf("expected response header")
	}
}
