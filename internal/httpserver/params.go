package httpserver

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/session"
)

var errNoUser = errors.New("no session user in context")

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, strconv.ErrRange
	}
	return uint(v), nil
}

// intParam answers 404 unless the named path parameter is a positive integer.
func intParam(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := pathID(c, name); err != nil {
				return echo.ErrNotFound
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) (uint, error) {
	id, ok := session.UserIDFrom(c.Request().Context())
	if !ok {
		return 0, errNoUser
	}
	return id, nil
}
