package middleware // middleware holds the Echo middleware shared by all route groups

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Context keys set by JWTAuth.
const (
    ctxUserID = "user_id" // uint64 subject of the token
    ctxRole   = "role"    // string role claim
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// issued by the identity service and stores its subject and role in the
// request context.  Tokens are HS256 signed; the subject may be encoded as
// a number or a decimal string.  Unknown roles are rejected.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                // Reject anything that is not HMAC signed.
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            id, ok := toUint64(claims["sub"])
            if !ok || id == 0 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }
            role, _ := claims["role"].(string)
            switch model.Role(strings.ToUpper(role)) {
            case model.RoleGuest, model.RoleOwner, model.RoleAdmin:
            default:
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid role"})
            }

            c.Set(ctxUserID, id)
            c.Set(ctxRole, strings.ToUpper(role))
            return next(c)
        }
    }
}
