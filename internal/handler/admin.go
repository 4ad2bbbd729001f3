package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/scheduler"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// SweepRunner runs one maintenance sweep under the scheduler's lock.
type SweepRunner interface {
    RunCompletion(ctx context.Context) (service.SweepResult, error)
    RunExpiration(ctx context.Context) (service.SweepResult, error)
}

// AdminHandler exposes manual sweep triggers.
type AdminHandler struct {
    runner SweepRunner
    log    logrus.FieldLogger
}

// NewAdminHandler returns an AdminHandler.
func NewAdminHandler(runner SweepRunner, log logrus.FieldLogger) *AdminHandler {
    return &AdminHandler{runner: runner, log: log}
}

// RunSweep handles POST /v1/admin/sweeps/:job.  A sweep already running
// elsewhere yields 409.
func (h *AdminHandler) RunSweep(c echo.Context) error {
    var run func(context.Context) (service.SweepResult, error)
    switch c.Param("job") {
    case service.JobCompletion:
        run = h.runner.RunCompletion
    case service.JobExpiration:
        run = h.runner.RunExpiration
    default:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown sweep job"})
    }
    res, err := run(c.Request().Context())
    if errors.Is(err, scheduler.ErrSweepInProgress) {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, res)
}
