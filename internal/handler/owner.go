package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// OwnerHandler serves the owner calendar endpoints: blocks and price overrides.
type OwnerHandler struct {
    svc *service.Service
    log logrus.FieldLogger
}

// NewOwnerHandler returns an OwnerHandler.
func NewOwnerHandler(svc *service.Service, log logrus.FieldLogger) *OwnerHandler {
    if svc == nil {
        panic("nil service passed to NewOwnerHandler")
    }
    return &OwnerHandler{svc: svc, log: log}
}

type blockRequest struct {
    StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
    EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
    BlockType string `json:"block_type" validate:"omitempty,oneof=manual maintenance"`
    Reason    string `json:"reason" validate:"max=500"`
}

type overrideRequest struct {
    StartDate          string `json:"start_date" validate:"required,datetime=2006-01-02"`
    EndDate            string `json:"end_date" validate:"required,datetime=2006-01-02"`
    PricePerNightCents int64  `json:"price_per_night_cents" validate:"required,gt=0"`
    Priority           int    `json:"priority" validate:"gte=0"`
    Description        string `json:"description" validate:"max=255"`
}

func (r overrideRequest) input() service.OverrideInput {
    return service.OverrideInput{
        StartDate:          mustDate(r.StartDate),
        EndDate:            mustDate(r.EndDate),
        PricePerNightCents: r.PricePerNightCents,
        Priority:           r.Priority,
        Description:        r.Description,
    }
}

// ListBlocks handles GET /v1/properties/:id/blocks.
func (h *OwnerHandler) ListBlocks(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    list, err := h.svc.ListBlocks(c.Request().Context(), a, propertyID)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// CreateBlock handles POST /v1/properties/:id/blocks.
func (h *OwnerHandler) CreateBlock(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    var req blockRequest
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    blk, err := h.svc.CreateBlock(c.Request().Context(), a, propertyID, service.BlockInput{
        StartDate: mustDate(req.StartDate),
        EndDate:   mustDate(req.EndDate),
        BlockType: model.BlockType(req.BlockType),
        Reason:    req.Reason,
    })
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusCreated, blk)
}

// DeleteBlock handles DELETE /v1/properties/:id/blocks/:blockId.
func (h *OwnerHandler) DeleteBlock(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    blockID, ok, err := pathID(c, "blockId")
    if !ok {
        return err
    }
    if err := h.svc.DeleteBlock(c.Request().Context(), a, propertyID, blockID); err != nil {
        return writeError(c, h.log, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// ListOverrides handles GET /v1/properties/:id/price-overrides.
func (h *OwnerHandler) ListOverrides(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    list, err := h.svc.ListOverrides(c.Request().Context(), a, propertyID)
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// CreateOverride handles POST /v1/properties/:id/price-overrides.
func (h *OwnerHandler) CreateOverride(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    var req overrideRequest
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    o, err := h.svc.CreateOverride(c.Request().Context(), a, propertyID, req.input())
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusCreated, o)
}

// UpdateOverride handles PUT /v1/properties/:id/price-overrides/:overrideId.
func (h *OwnerHandler) UpdateOverride(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    overrideID, ok, err := pathID(c, "overrideId")
    if !ok {
        return err
    }
    var req overrideRequest
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    o, err := h.svc.UpdateOverride(c.Request().Context(), a, propertyID, overrideID, req.input())
    if err != nil {
        return writeError(c, h.log, err)
    }
    return c.JSON(http.StatusOK, o)
}

// DeleteOverride handles DELETE /v1/properties/:id/price-overrides/:overrideId.
func (h *OwnerHandler) DeleteOverride(c echo.Context) error {
    a, ok, err := actor(c)
    if !ok {
        return err
    }
    propertyID, ok, err := pathID(c, "id")
    if !ok {
        return err
    }
    overrideID, ok, err := pathID(c, "overrideId")
    if !ok {
        return err
    }
    if err := h.svc.DeleteOverride(c.Request().Context(), a, propertyID, overrideID); err != nil {
        return writeError(c, h.log, err)
    }
    return c.NoContent(http.StatusNoContent)
}
