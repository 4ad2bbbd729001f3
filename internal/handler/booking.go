package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
    svc *service.Service
    log logrus.FieldLogger
}

// NewBookingHandler returns a BookingHandler.
func NewBookingHandler(svc *service.Service, log logrus.FieldLogger) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{svc: svc, log: log}
}

type guestContactRequest struct {
    Name  string `json:"name" validate:"required,max=255"`
    Email string `json:"email" validate:"required,email,max=255"`
    Phone string `json:"phone" validate:"omitempty,max=64"`
}

type createBookingRequest struct {
    CheckIn  string              `json:"check_in" validate:"required,datetime=2006-01-02"`
    CheckOut string              `json:"check_out" validate:"required,datetime=2006-01-02"`
    Guests   int                 `json:"guests" validate:"required,min=1,max=64"`
    Guest    guestContactRequest `json:"guest" validate:"required"`
}

type cancelBookingRequest struct {
    Reason string `json:"reason" validate:"max=500"`
}

// Create handles POST /v1/properties/:id/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    var req createBookingRequest
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    b, err := h.svc.CreateBooking(c.Request().Context(), a, service.CreateBookingInput{
        PropertyID: propertyID,
        CheckIn:    mustDate(req.CheckIn),
        CheckOut:   mustDate(req.CheckOut),
        Guests:     req.Guests,
        Contact:    model.GuestContact{Name: req.Guest.Name, Email: req.Guest.Email, Phone: req.Guest.Phone},
    })
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusCreated, b)
}

// Confirm handles POST /v1/bookings/:uuid/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    b, err := h.svc.ConfirmBooking(c.Request().Context(), c.Param("uuid"), a)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /v1/bookings/:uuid/cancel.  The body is optional.
func (h *BookingHandler) Cancel(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    var req cancelBookingRequest
    if c.Request().ContentLength != 0 {
        if ok, err := bindAndValidate(c, &req); !ok {
            return err
        }
    }
    res, err := h.svc.CancelBooking(c.Request().Context(), c.Param("uuid"), a, req.Reason)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Get handles GET /v1/bookings/:uuid.
func (h *BookingHandler) Get(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    b, err := h.svc.GetBooking(c.Request().Context(), c.Param("uuid"), a)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, b)
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    list, err := h.svc.ListGuestBookings(c.Request().Context(), a)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// ListForProperty handles GET /v1/properties/:id/bookings?status=.
func (h *BookingHandler) ListForProperty(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    status := model.BookingStatus(c.QueryParam("status"))
    switch status {
    case "", model.StatusPending, model.StatusConfirmed, model.StatusInProgress, model.StatusCompleted, model.StatusCancelled:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }
    list, err := h.svc.ListPropertyBookings(c.Request().Context(), a, propertyID, status)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}
