package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cookie, err := h.Svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			l.Warn("login_failed", "status", 401, "username", req.Username, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Invalid credentials")
		}
		l.Error("login_failed", "status", 500, "reason", "cannot open session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot open session")
	}

	c.SetCookie(cookie)
	l.Info("login_successful", "username", req.Username)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged in successfully"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if ck, err := c.Cookie(h.Svc.Sessions.CookieName); err == nil {
		if err := h.Svc.Logout(ctx, ck.Value); err != nil {
			l.Error("logout_failed", "reason", "cannot delete session", "error", err)
		}
	}

	c.SetCookie(h.Svc.ClearCookie())
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logout successfully"})
}
