package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.  Server errors log
// at error level, client errors at warn and the rest at info.
func RequestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // Let Echo's error handler write the response so the
                // logged status is the one the client sees.
                c.Error(err)
            }
            req, res := c.Request(), c.Response()
            entry := log.WithFields(logrus.Fields{
                "method":     req.Method,
                "path":       req.URL.Path,
                "route":      c.Path(),
                "status":     res.Status,
                "latency_ms": time.Since(start).Milliseconds(),
                "remote_ip":  c.RealIP(),
                "user":       subject(c),
                "request_id": res.Header().Get(echo.HeaderXRequestID),
            })
            switch {
            case res.Status >= 500:
                entry.WithError(err).Error("request failed")
            case res.Status >= 400:
                entry.Warn("request rejected")
            default:
                entry.Info("request served")
            }
            return nil
        }
    }
}
