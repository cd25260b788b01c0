package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"unilodge/internal/app/dto"
	reviewsvc "unilodge/internal/app/services/review"
	domainproperty "unilodge/internal/domain/property"
	domainreview "unilodge/internal/domain/review"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	ListForProperty(c *gin.Context)
}

type ReviewHandler struct {
	Service *reviewsvc.Service
	Logger  *slog.Logger
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	principal, ok := requireRole(c, "student")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews unavailable"})
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rev, err := h.Service.Submit(c.Request.Context(), reviewsvc.SubmitParams{
		StudentID:  principal.ID,
		PropertyID: c.Param("id"),
		BookingID:  req.BookingID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainproperty.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		case errors.Is(err, domainreview.ErrInvalidRating),
			errors.Is(err, domainreview.ErrCommentRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logError("review submit failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": string(rev.ID), "verified": rev.Verified})
}

func (h ReviewHandler) ListForProperty(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reviews unavailable"})
		return
	}
	reviews, err := h.Service.ListByProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logError("review list failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.ReviewList{Items: dto.MapReviews(reviews)})
}

func (h ReviewHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

var _ ReviewHTTP = (*ReviewHandler)(nil)
