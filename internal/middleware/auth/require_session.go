package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/session"
)

type UserChecker interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

type SessionAuth struct {
	Sessions *session.Manager
	Users    UserChecker
}

func NewSessionAuth(sessions *session.Manager, users UserChecker) *SessionAuth {
	return &SessionAuth{Sessions: sessions, Users: users}
}

// RequireSession rejects the request with 401 unless the session cookie
// names a live session whose user still exists.
func (m *SessionAuth) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_session")

		ck, err := c.Cookie(m.Sessions.CookieName)
		if err != nil || ck.Value == "" {
			l.Warn("session_missing", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		sess, err := m.Sessions.Resolve(ctx, ck.Value)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				l.Warn("session_invalid", "status", 401, "error", err)
			} else {
				l.Error("session_lookup_failed", "status", 401, "error", err)
			}
			c.SetCookie(m.Sessions.Clear())
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		ok, err := m.Users.UserExists(ctx, sess.UserID)
		if err != nil || !ok {
			l.Warn("session_user_missing", "status", 401, "user_id", sess.UserID, "error", err)
			c.SetCookie(m.Sessions.Clear())
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		ctx = session.WithUserID(ctx, sess.UserID)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", sess.UserID))
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
