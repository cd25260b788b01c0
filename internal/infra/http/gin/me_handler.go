package ginserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"unilodge/internal/app/dto"
	profilesvc "unilodge/internal/app/services/profile"
	domainuser "unilodge/internal/domain/user"
)

const maxAvatarSizeBytes = 4 * 1024 * 1024

type MeHTTP interface {
	UpdateProfile(c *gin.Context)
	UploadAvatar(c *gin.Context)
}

type MeHandler struct {
	Service *profilesvc.Service
	Logger  *slog.Logger
}

type updateProfileRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	University *string `json:"university"`
	City       *string `json:"city"`
}

func (h MeHandler) UpdateProfile(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profiles unavailable"})
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.Service.Update(c.Request.Context(), principal.ID, domainuser.ProfileUpdate{
		FullName:   req.FullName,
		Phone:      req.Phone,
		University: req.University,
		City:       req.City,
	})
	if err != nil {
		if errors.Is(err, domainuser.ErrNameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logError("profile update failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(user))
}

func (h MeHandler) UploadAvatar(c *gin.Context) {
	principal, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "profiles unavailable"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxAvatarSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be between 1 byte and 4 MB"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	user, err := h.Service.UploadAvatar(c.Request.Context(), principal.ID,
		fileHeader.Filename, io.LimitReader(file, maxAvatarSizeBytes),
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, profilesvc.ErrUploadsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
			return
		}
		h.logError("avatar upload failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(user))
}

func (h MeHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

var _ MeHTTP = (*MeHandler)(nil)
