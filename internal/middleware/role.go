package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// RequireRole rejects requests whose role, as stored by JWTAuth, is not
// one of roles.  Ownership of a particular property is checked later by
// the service; this only filters by role.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            a, ok := ActorFrom(c)
            if !ok || !allowed[a.Role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
