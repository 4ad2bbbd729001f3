package middleware

// identity.go turns the values stored by JWTAuth back into typed form for
// handlers and for the rate limiter's key builder.

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// ActorFrom returns the authenticated caller.  ok is false on routes that
// did not run JWTAuth.
func ActorFrom(c echo.Context) (model.Actor, bool) {
    id, ok := toUint64(c.Get(ctxUserID))
    if !ok || id == 0 {
        return model.Actor{}, false
    }
    role, _ := c.Get(ctxRole).(string)
    return model.Actor{ID: id, Role: model.Role(role)}, true
}

// subject is the caller id as a string, or "anon".
func subject(c echo.Context) string {
    if a, ok := ActorFrom(c); ok {
        return strconv.FormatUint(a.ID, 10)
    }
    return "anon"
}

func toUint64(v interface{}) (uint64, bool) {
    switch t := v.(type) {
    case uint64:
        return t, true
    case int:
        return uint64(t), t >= 0
    case int64:
        return uint64(t), t >= 0
    case float64:
        return uint64(t), t >= 0
    case string:
        n, err := strconv.ParseUint(t, 10, 64)
        return n, err == nil
    }
    return 0, false
}
