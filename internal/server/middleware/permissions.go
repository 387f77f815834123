package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// HasPermission reports whether the user carries the given permission.
// Permissions are flat strings ("ingest.create", "export.view");
// admins receive the full set at token parse time, so no role check is
// needed here.
func HasPermission(user *AppUser, permission string) bool {
	if user == nil {
		return false
	}
	return slices.Contains(user.Permissions, permission)
}

// HasAnyPermission reports whether the user carries at least one of the
// given permissions.
func HasAnyPermission(user *AppUser, permissions ...string) bool {
	if user == nil {
		return false
	}
	for _, permission := range permissions {
		if HasPermission(user, permission) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func IsAdmin(user *AppUser) bool {
	return user != nil && user.Role == "admin"
}

// RequirePermission guards a route behind a single permission. It runs
// after AuthMiddleware, so a nil user means the request never carried
// valid credentials.
func RequirePermission(permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !HasPermission(user, permission) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: missing permission " + permission})
			}
			return next(c)
		}
	}
}

// RequireAnyPermission guards a route behind a set of alternatives; one
// matching permission is enough.
func RequireAnyPermission(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := c.(*AppContext).User
			if user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
			if !HasAnyPermission(user, permissions...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: missing required permission"})
			}
			return next(c)
		}
	}
}
