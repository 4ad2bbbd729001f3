package router // package router registers the HTTP routes of the reservation API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/stay-reservation/internal/handler"
	"github.com/iliyamo/stay-reservation/internal/middleware"
	"github.com/iliyamo/stay-reservation/internal/model"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Health   echo.HandlerFunc
	Bookings *handler.BookingHandler
	Calendar *handler.CalendarHandler
	Owner    *handler.OwnerHandler
	Admin    *handler.AdminHandler
}

// Middlewares carries the Redis-backed middleware built from config.
// Either may be a pass-through when Redis is unavailable.
type Middlewares struct {
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes mounts the public calendar reads, the authenticated
// booking lifecycle, the owner calendar management and the admin sweep
// triggers.
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middlewares, jwtSecret string) {
	if mw.RateLimit == nil {
		mw.RateLimit = passThrough
	}
	if mw.Cache == nil {
		mw.Cache = passThrough
	}
	e.GET("/healthz", h.Health)

	// Public reads.  Occupied dates and nightly prices are cached.
	pub := e.Group("/v1/properties/:id")
	pub.GET("/availability", h.Calendar.Availability)
	pub.GET("/occupied-dates", h.Calendar.OccupiedDates, mw.Cache)
	pub.GET("/price", h.Calendar.Price, mw.Cache)
	pub.GET("/quote", h.Calendar.Quote)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	guest := middleware.RequireRole(model.RoleGuest)
	owner := middleware.RequireRole(model.RoleOwner, model.RoleAdmin)
	anyone := middleware.RequireRole(model.RoleGuest, model.RoleOwner, model.RoleAdmin)

	// Booking lifecycle.  Writes are rate limited per user and route.
	auth.POST("/properties/:id/bookings", h.Bookings.Create, guest, mw.RateLimit)
	auth.GET("/properties/:id/bookings", h.Bookings.ListForProperty, owner)
	auth.GET("/my-bookings", h.Bookings.ListMine, guest)
	auth.GET("/bookings/:uuid", h.Bookings.Get, anyone)
	auth.POST("/bookings/:uuid/confirm", h.Bookings.Confirm, owner, mw.RateLimit)
	auth.POST("/bookings/:uuid/cancel", h.Bookings.Cancel, anyone, mw.RateLimit)

	// Owner calendar management.
	auth.GET("/properties/:id/blocks", h.Owner.ListBlocks, owner)
	auth.POST("/properties/:id/blocks", h.Owner.CreateBlock, owner, mw.RateLimit)
	auth.DELETE("/properties/:id/blocks/:blockId", h.Owner.DeleteBlock, owner, mw.RateLimit)
	auth.GET("/properties/:id/price-overrides", h.Owner.ListOverrides, owner)
	auth.POST("/properties/:id/price-overrides", h.Owner.CreateOverride, owner, mw.RateLimit)
	auth.PUT("/properties/:id/price-overrides/:overrideId", h.Owner.UpdateOverride, owner, mw.RateLimit)
	auth.DELETE("/properties/:id/price-overrides/:overrideId", h.Owner.DeleteOverride, owner, mw.RateLimit)

	// Manual sweep triggers.
	auth.POST("/admin/sweeps/:job", h.Admin.RunSweep, middleware.RequireRole(model.RoleAdmin))
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
