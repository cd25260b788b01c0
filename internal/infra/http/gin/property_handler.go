package ginserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"unilodge/internal/app/dto"
	propertysvc "unilodge/internal/app/services/property"
	domainproperty "unilodge/internal/domain/property"
)

const maxPropertyPhotoSizeBytes = 8 * 1024 * 1024

type PropertyHTTP interface {
	Catalog(c *gin.Context)
	Featured(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	UploadPhoto(c *gin.Context)
	MyListings(c *gin.Context)
}

type PropertyHandler struct {
	Service *propertysvc.Service
	Logger  *slog.Logger
}

type createPropertyRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	RoomTypes        []string `json:"room_types"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Address          string   `json:"address"`
	PricePerMonth    int64    `json:"price_per_month"`
	Currency         string   `json:"currency"`
	Amenities        []string `json:"amenities"`
	RoomsTotal       int      `json:"rooms_total"`
	RoomsAvailable   int      `json:"rooms_available"`
	NearbyUniversity string   `json:"nearby_university"`
	DistanceToUniKM  float64  `json:"distance_to_uni_km"`
}

func (h PropertyHandler) Catalog(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	params := domainproperty.SearchParams{
		City:     c.Query("city"),
		Country:  c.Query("country"),
		PriceMin: parseInt64(c.Query("price_min")),
		PriceMax: parseInt64(c.Query("price_max")),
		Type:     domainproperty.Type(c.Query("type")),
		RoomType: domainproperty.RoomType(c.Query("room_type")),
		Query:    c.Query("q"),
		Sort:     domainproperty.Sort(c.Query("sort")),
		Limit:    parsePositiveIntStrict(c.Query("limit"), 0),
		Offset:   parsePositiveIntStrict(c.Query("offset"), 0),
	}
	props, err := h.Service.Catalog(c.Request.Context(), params)
	if err != nil {
		h.logError("catalog search failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.PropertyList{Items: dto.MapProperties(props)})
}

func (h PropertyHandler) Featured(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	props, err := h.Service.Featured(c.Request.Context(), parsePositiveIntStrict(c.Query("limit"), 0))
	if err != nil {
		h.logError("featured listing failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.PropertyList{Items: dto.MapProperties(props)})
}

func (h PropertyHandler) Get(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	prop, err := h.Service.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.logError("property lookup failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.MapProperty(prop))
}

func (h PropertyHandler) Create(c *gin.Context) {
	principal, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	prop, err := h.Service.Create(c.Request.Context(), propertysvc.CreateParams{
		LandlordID:       principal.ID,
		Title:            req.Title,
		Description:      req.Description,
		Type:             req.Type,
		RoomTypes:        req.RoomTypes,
		City:             req.City,
		Country:          req.Country,
		Address:          req.Address,
		PricePerMonth:    req.PricePerMonth,
		Currency:         req.Currency,
		Amenities:        req.Amenities,
		RoomsTotal:       req.RoomsTotal,
		RoomsAvailable:   req.RoomsAvailable,
		NearbyUniversity: req.NearbyUniversity,
		DistanceToUniKM:  req.DistanceToUniKM,
	})
	if err != nil {
		h.respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapProperty(prop))
}

func (h PropertyHandler) Update(c *gin.Context) {
	principal, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	var req createPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	prop, err := h.Service.Update(c.Request.Context(), c.Param("id"), principal.ID, propertysvc.UpdateParams{
		Title:            req.Title,
		Description:      req.Description,
		Type:             req.Type,
		RoomTypes:        req.RoomTypes,
		City:             req.City,
		Country:          req.Country,
		Address:          req.Address,
		PricePerMonth:    req.PricePerMonth,
		Currency:         req.Currency,
		Amenities:        req.Amenities,
		RoomsTotal:       req.RoomsTotal,
		RoomsAvailable:   req.RoomsAvailable,
		NearbyUniversity: req.NearbyUniversity,
		DistanceToUniKM:  req.DistanceToUniKM,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainproperty.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, propertysvc.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
		default:
			h.respondDomainError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, dto.MapProperty(prop))
}

func (h PropertyHandler) UploadPhoto(c *gin.Context) {
	principal, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxPropertyPhotoSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file must be between 1 byte and %d MB", maxPropertyPhotoSizeBytes/1024/1024)})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	defer file.Close()

	prop, err := h.Service.AttachPhoto(c.Request.Context(), c.Param("id"), principal.ID,
		fileHeader.Filename, io.LimitReader(file, maxPropertyPhotoSizeBytes),
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, domainproperty.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(err, propertysvc.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
		case errors.Is(err, propertysvc.ErrUploadsDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads disabled"})
		default:
			h.logError("photo upload failed", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MapProperty(prop))
}

func (h PropertyHandler) MyListings(c *gin.Context) {
	principal, ok := requireRole(c, "landlord")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	props, err := h.Service.ListByLandlord(c.Request.Context(), principal.ID)
	if err != nil {
		h.logError("landlord listings failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.PropertyList{Items: dto.MapProperties(props)})
}

func (h PropertyHandler) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainproperty.ErrTitleRequired),
		errors.Is(err, domainproperty.ErrCityRequired),
		errors.Is(err, domainproperty.ErrInvalidType),
		errors.Is(err, domainproperty.ErrInvalidPrice),
		errors.Is(err, domainproperty.ErrInvalidRooms):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logError("property operation failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h PropertyHandler) logError(msg string, err error) {
	if h.Logger != nil {
		h.Logger.Error(msg, "error", err)
	}
}

func parsePositiveIntStrict(raw string, def int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return def
	}
	return value
}

func parseInt64(raw string) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

var _ PropertyHTTP = (*PropertyHandler)(nil)
