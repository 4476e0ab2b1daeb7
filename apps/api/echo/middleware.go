package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// isAdmin must run after the JWT middleware.
func isAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if !claims.IsAdmin() {
			return errAdminsOnly
		}
		return next(ctx)
	}
}
