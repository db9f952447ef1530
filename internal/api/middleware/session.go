package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ContextKeySessionToken holds the verified session token in echo.Context.
const ContextKeySessionToken = "session_token"

var errInvalidCookie = errors.New("invalid session cookie")

// SessionCookie carries opaque session tokens to the client inside an HS256
// JWT signed with the service secret, so forged or tampered cookies are
// rejected before any store lookup.
type SessionCookie struct {
	name   string
	secure bool
	secret []byte
}

func NewSessionCookie(name, secret string, secure bool) *SessionCookie {
	return &SessionCookie{name: name, secure: secure, secret: []byte(secret)}
}

// Encode signs token into a cookie value valid until expiresAt.
func (sc *SessionCookie) Encode(token string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        token,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sc.secret)
}

// Decode verifies value and returns the session token it carries.
func (sc *SessionCookie) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (interface{}, error) {
		return sc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", errInvalidCookie
	}
	return claims.ID, nil
}

// Write sets the session cookie. Permanent sessions get an explicit expiry;
// others are browser-session cookies.
func (sc *SessionCookie) Write(c echo.Context, value string, expiresAt time.Time, permanent bool) {
	cookie := sc.base()
	cookie.Value = value
	if permanent {
		cookie.Expires = expiresAt
		cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	}
	c.SetCookie(cookie)
}

// Clear expires the session cookie on the client.
func (sc *SessionCookie) Clear(c echo.Context) {
	cookie := sc.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (sc *SessionCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     sc.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Session resolves the session cookie, or an Authorization bearer carrying the
// same signed value, into ContextKeySessionToken. Requests without a valid
// value continue as anonymous; handlers decide whether that is acceptable.
func Session(sc *SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if value := sc.read(c); value != "" {
				if token, err := sc.Decode(value); err == nil {
					c.Set(ContextKeySessionToken, token)
				}
			}
			return next(c)
		}
	}
}

func (sc *SessionCookie) read(c echo.Context) string {
	if cookie, err := c.Cookie(sc.name); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionToken returns the verified session token set by Session, or "".
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ContextKeySessionToken).(string)
	return token
}
