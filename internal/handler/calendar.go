package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// CalendarHandler serves the public availability and price reads.
type CalendarHandler struct {
    svc *service.Service
    log logrus.FieldLogger
}

// NewCalendarHandler returns a CalendarHandler.
func NewCalendarHandler(svc *service.Service, log logrus.FieldLogger) *CalendarHandler {
    return &CalendarHandler{svc: svc, log: log}
}

// Availability handles GET /v1/properties/:id/availability?check_in=&check_out=.
func (h *CalendarHandler) Availability(c echo.Context) error {
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    in, ok, err := queryDate(c, "check_in")
    if !ok {
        return err
    }
    out, ok, err := queryDate(c, "check_out")
    if !ok {
        return err
    }
    available, err := h.svc.CheckAvailability(c.Request().Context(), propertyID, in, out)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id": propertyID,
        "check_in":    in.Format(model.DateLayout),
        "check_out":   out.Format(model.DateLayout),
        "available":   available,
    })
}

type occupiedInterval struct {
    Start  string `json:"start"`
    End    string `json:"end"`
    Source string `json:"source"`
}

// OccupiedDates handles GET /v1/properties/:id/occupied-dates?from=&to=.
func (h *CalendarHandler) OccupiedDates(c echo.Context) error {
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    from, ok, err := queryDate(c, "from")
    if !ok {
        return err
    }
    to, ok, err := queryDate(c, "to")
    if !ok {
        return err
    }
    list, err := h.svc.OccupiedDates(c.Request().Context(), propertyID, from, to)
    if err != nil {
        return writeError(c, h.log, err)
    }
    items := make([]occupiedInterval, 0, len(list))
    for _, iv := range list {
        items = append(items, occupiedInterval{
            Start:  iv.Start.Format(model.DateLayout),
            End:    iv.End.Format(model.DateLayout),
            Source: string(iv.Source),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": propertyID, "items": items})
}

// Price handles GET /v1/properties/:id/price?date=.
func (h *CalendarHandler) Price(c echo.Context) error {
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    day, ok, err := queryDate(c, "date")
    if !ok {
        return err
    }
    rate, err := h.svc.PriceOnDate(c.Request().Context(), propertyID, day)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id":           propertyID,
        "date":                  day.Format(model.DateLayout),
        "price_per_night_cents": rate,
    })
}

// Quote handles GET /v1/properties/:id/quote?check_in=&check_out=.
func (h *CalendarHandler) Quote(c echo.Context) error {
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    in, ok, err := queryDate(c, "check_in")
    if !ok {
        return err
    }
    out, ok, err := queryDate(c, "check_out")
    if !ok {
        return err
    }
    q, err := h.svc.Quote(c.Request().Context(), propertyID, in, out)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, q)
}
