package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"unilodge/internal/app/dto"
	bookingsvc "unilodge/internal/app/services/booking"
	domainbooking "unilodge/internal/domain/booking"
	domainproperty "unilodge/internal/domain/property"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	ListMine(c *gin.Context)
	ListForProperty(c *gin.Context)
}

type BookingHandler struct {
	Service *bookingsvc.Service
	Logger  *slog.Logger
}

type createBookingRequest struct {
	PropertyID string    `json:"property_id"`
	RoomType   string    `json:"room_type"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Notes      string    `json:"notes"`
}

func (h BookingHandler) Create(c *gin.Context) {
	principal, ok := requireRole(c, "student")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	booking, err := h.Service.Create(c.Request.Context(), bookingsvc.CreateParams{
		StudentID:  principal.ID,
		PropertyID: req.PropertyID,
		RoomType:   req.RoomType,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
	})
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBooking(booking, nil))
}

func (h BookingHandler) ListMine(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	bookings, properties, err := h.Service.ListForStudent(c.Request.Context(), principal.ID)
	if err != nil {
		h.logError("list bookings failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	items := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.MapBooking(b, properties[string(b.PropertyID)]))
	}
	c.JSON(http.StatusOK, dto.BookingList{Items: items})
}

func (h BookingHandler) ListForProperty(c *gin.Context) {
	principal, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bookings unavailable"})
		return
	}
	bookings, err := h.Service.ListForProperty(c.Request.Context(), c.Param("id"), principal.ID)
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) || errors.Is(err, domainbooking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logError("property bookings failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	items := make([]dto.Booking, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.MapBooking(b, nil))
	}
	c.JSON(http.StatusOK, dto.BookingList{Items: items})
}

func (h BookingHandler) respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainproperty.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
	case errors.Is(err, domainbooking.ErrInvalidRoomType),
		errors.Is(err, domainbooking.ErrInvalidDates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logError("booking create failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h BookingHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

var _ BookingHTTP = (*BookingHandler)(nil)
