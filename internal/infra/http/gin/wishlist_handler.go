package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"unilodge/internal/app/dto"
	wishlistsvc "unilodge/internal/app/services/wishlist"
	domainproperty "unilodge/internal/domain/property"
)

type WishlistHTTP interface {
	Toggle(c *gin.Context)
	List(c *gin.Context)
}

type WishlistHandler struct {
	Service *wishlistsvc.Service
	Logger  *slog.Logger
}

func (h WishlistHandler) Toggle(c *gin.Context) {
	principal, ok := requireRole(c, "student")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wishlists unavailable"})
		return
	}
	saved, err := h.Service.Toggle(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
		h.logError("wishlist toggle failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h WishlistHandler) List(c *gin.Context) {
	principal, ok := requireRole(c, "student")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wishlists unavailable"})
		return
	}
	props, err := h.Service.List(c.Request.Context(), principal.ID)
	if err != nil {
		h.logError("wishlist load failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.PropertyList{Items: dto.MapProperties(props)})
}

func (h WishlistHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

var _ WishlistHTTP = (*WishlistHandler)(nil)
