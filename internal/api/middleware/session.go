package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

const (
	// CookieName is the session cookie issued at login.
	CookieName = "task4_sid"

	sessionTTL = 24 * time.Hour
	userKey    = "user"
)

// redirectResponse tells API callers where to navigate on auth failure.
type redirectResponse struct {
	Redirect string `json:"redirect"`
}

var loginRedirect = redirectResponse{Redirect: "/login"}

// UserFinder is the slice of the user repository the gate needs to re-check
// account status on every request.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionManager issues and validates the signed session cookie and gates
// protected routes. The cookie value is an HS256-signed token carrying the
// opaque session id; the id resolves to a user through the session store.
type SessionManager struct {
	store  ports.SessionStore
	users  UserFinder
	secret []byte
	secure bool
	log    zerolog.Logger
}

// NewSessionManager builds a SessionManager. In production deployments the
// cookie is Secure with SameSite=None so the browser sends it cross-origin;
// in development it is Lax over plain HTTP.
func NewSessionManager(store ports.SessionStore, users UserFinder, secret string, production bool, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:  store,
		users:  users,
		secret: []byte(secret),
		secure: production,
		log:    log,
	}
}

// Issue creates a server-side session for userID and sets the signed cookie
// on the response.
func (m *SessionManager) Issue(c echo.Context, userID string) error {
	sid, err := m.store.Create(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(sessionTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	c.SetCookie(m.cookie(signed, int(sessionTTL.Seconds())))
	return nil
}

// Clear destroys the caller's session and expires the cookie. Safe to call
// without a valid session.
func (m *SessionManager) Clear(c echo.Context) {
	if sid, ok := m.sessionID(c); ok {
		if err := m.store.Destroy(c.Request().Context(), sid); err != nil {
			m.log.Error().Err(err).Msg("session destroy failed")
		}
	}
	c.SetCookie(m.cookie("", -1))
}

// Gate enforces the authorization contract on protected routes:
//
//  1. no valid session cookie            -> 401 {redirect:"/login"}
//  2. session user missing or blocked    -> session destroyed, 403 {redirect:"/login"}
//  3. otherwise the user record is attached to the request context
func (m *SessionManager) Gate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, ok := m.sessionID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, loginRedirect)
			}

			ctx := c.Request().Context()
			userID, err := m.store.Resolve(ctx, sid)
			if err != nil {
				return err
			}
			if userID == "" {
				return c.JSON(http.StatusUnauthorized, loginRedirect)
			}

			user, err := m.users.FindByID(ctx, userID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return err
			}
			if user == nil || user.Blocked() {
				m.Clear(c)
				return c.JSON(http.StatusForbidden, loginRedirect)
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

// sessionID extracts and authenticates the session id from the request
// cookie. A missing, tampered, or expired cookie yields ok=false.
func (m *SessionManager) sessionID(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	return sid, sid != ""
}

func (m *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if m.secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: sameSite,
	}
}

// UserFrom returns the user attached by Gate, or nil outside a gated route.
func UserFrom(c echo.Context) *domain.User {
	user, _ := c.Get(userKey).(*domain.User)
	return user
}
