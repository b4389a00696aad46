package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"casaligan-admin-server/middleware"
	"casaligan-admin-server/models"
	"casaligan-admin-server/services"
)

const dateLayout = "2006-01-02"

// BookingHandler serves the unified booking endpoints of the admin console.
type BookingHandler struct {
	bookings     *services.BookingService
	router       *services.BookingRouter
	defaultLimit int
	maxLimit     int
	loc          *time.Location
}

type BookingHandlerOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	// Location interprets date-only query parameters.
	Location *time.Location
}

func NewBookingHandler(bookings *services.BookingService, router *services.BookingRouter, opts BookingHandlerOptions) *BookingHandler {
	h := &BookingHandler{
		bookings:     bookings,
		router:       router,
		defaultLimit: opts.DefaultPageSize,
		maxLimit:     opts.MaxPageSize,
		loc:          opts.Location,
	}
	if h.defaultLimit <= 0 {
		h.defaultLimit = 50
	}
	if h.loc == nil {
		h.loc = time.UTC
	}
	return h
}

// RegisterAdminBookingRoutes registers the booking routes on an admin group.
// writeQuota guards the mutating routes and may be nil.
func RegisterAdminBookingRoutes(rg *gin.RouterGroup, h *BookingHandler, writeQuota gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.listBookings)
		bookings.GET("/analytics", h.bookingAnalytics)
		bookings.GET("/stats", h.bookingStats)
		bookings.GET("/:id", h.getBooking)

		writes := bookings.Group("")
		if writeQuota != nil {
			writes.Use(writeQuota)
		}
		writes.PATCH("/:id", h.updateBookingStatus)
		writes.DELETE("/:id", h.deleteBooking)
	}
}

// parseDate accepts a calendar date or an RFC3339 timestamp. A calendar date
// used as an upper bound covers the whole day.
func (h *BookingHandler) parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(dateLayout, raw, h.loc); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *BookingHandler) parseRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	from, err := h.parseDate(c.Query("start_date"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, use YYYY-MM-DD or RFC3339"})
		return nil, nil, false
	}
	to, err := h.parseDate(c.Query("end_date"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, use YYYY-MM-DD or RFC3339"})
		return nil, nil, false
	}
	return from, to, true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func parseBookingParam(c *gin.Context) (models.UnifiedID, bool) {
	id, err := models.ParseBookingID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return models.UnifiedID{}, false
	}
	return id, true
}

// writeBookingError maps service errors onto HTTP status codes.
func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidBookingID),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPage),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrWindowTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, models.ErrUnknownNativeStatus):
		log.Printf("🚨 Unknown booking status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Booking request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// withWarnings adds the warnings key only when something degraded.
func withWarnings(body gin.H, warnings []services.SourceWarning) gin.H {
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	return body
}

func (h *BookingHandler) listBookings(c *gin.Context) {
	limit, err := queryInt(c, "limit", h.defaultLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
		return
	}
	if h.maxLimit > 0 && limit > h.maxLimit {
		limit = h.maxLimit
	}
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	page, err := h.bookings.ListBookings(c.Request.Context(), services.BookingQuery{
		Limit:       limit,
		Offset:      offset,
		Status:      c.Query("status"),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, withWarnings(gin.H{
		"success": true,
		"data":    page.Rows,
		"total":   page.Total,
		"limit":   limit,
		"offset":  offset,
	}, page.Warnings))
}

func (h *BookingHandler) getBooking(c *gin.Context) {
	id, ok := parseBookingParam(c)
	if !ok {
		return
	}
	booking, warnings, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarnings(gin.H{"success": true, "data": booking}, warnings))
}

func (h *BookingHandler) bookingAnalytics(c *gin.Context) {
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}
	analytics, warnings, err := h.bookings.WeeklySeries(c.Request.Context(), from, to)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarnings(gin.H{"success": true, "data": analytics}, warnings))
}

func (h *BookingHandler) bookingStats(c *gin.Context) {
	stats, warnings, err := h.bookings.StatusCounts(c.Request.Context())
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, withWarnings(gin.H{"success": true, "data": stats}, warnings))
}

func (h *BookingHandler) updateBookingStatus(c *gin.Context) {
	id, ok := parseBookingParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	booking, err := h.router.SetStatus(c.Request.Context(), id, req.Status, middleware.ActorFromContext(c))
	if err != nil {
		writeBookingError(c, err)
		return
	}

	// booking is nil when the update landed but the re-read failed
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking status updated",
		"data":    booking,
	})
}

func (h *BookingHandler) deleteBooking(c *gin.Context) {
	id, ok := parseBookingParam(c)
	if !ok {
		return
	}
	if err := h.router.Delete(c.Request.Context(), id, middleware.ActorFromContext(c)); err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking deleted",
	})
}
