package handler // handler maps HTTP requests onto the reservation service

import (
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/middleware"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// Validator adapts go-playground/validator to echo.Validator.
type Validator struct {
    v *validator.Validate
}

// NewValidator returns the request validator installed on the Echo instance.
func NewValidator() *Validator { return &Validator{v: validator.New()} }

// Validate runs struct tag validation.
func (cv *Validator) Validate(i interface{}) error { return cv.v.Struct(i) }

// bindAndValidate decodes the JSON body into req and validates it.  On
// failure it has already written a 400 response and returns false.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
    if err := c.Bind(req); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    if err := c.Validate(req); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fieldErrors(err)})
    }
    return true, nil
}

func fieldErrors(err error) map[string]string {
    out := map[string]string{}
    var ve validator.ValidationErrors
    if !errors.As(err, &ve) {
        out["_"] = err.Error()
        return out
    }
    for _, fe := range ve {
        name := strings.ToLower(fe.Field())
        if fe.Param() != "" {
            out[name] = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
        } else {
            out[name] = fe.Tag()
        }
    }
    return out
}

// actor returns the authenticated caller or writes a 401.
func actor(c echo.Context) (model.Actor, bool, error) {
    a, ok := middleware.ActorFrom(c)
    if !ok {
        return model.Actor{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    return a, true, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
    }
    return id, true, nil
}

// queryDate parses a required YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (time.Time, bool, error) {
    raw := c.QueryParam(name)
    if raw == "" {
        return time.Time{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": name + " is required"})
    }
    t, err := model.ParseDate(raw)
    if err != nil {
        return time.Time{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": name + " must be YYYY-MM-DD"})
    }
    return t, true, nil
}

// mustDate parses a date that already passed the datetime validator.
func mustDate(s string) time.Time {
    t, _ := model.ParseDate(s)
    return t
}

// writeError maps service errors onto HTTP statuses.  Unknown errors are
// logged and reported as 500 without detail.
func writeError(c echo.Context, log logrus.FieldLogger, err error) error {
    status := http.StatusInternalServerError
    switch {
    case errors.Is(err, service.ErrValidation):
        status = http.StatusBadRequest
    case errors.Is(err, service.ErrNotFound):
        status = http.StatusNotFound
    case errors.Is(err, service.ErrConflict):
        status = http.StatusConflict
    case errors.Is(err, service.ErrPermission):
        status = http.StatusForbidden
    case errors.Is(err, service.ErrInvalidState):
        status = http.StatusUnprocessableEntity
    }
    if status == http.StatusInternalServerError {
        log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
        return c.JSON(status, echo.Map{"error": "internal error"})
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}
