package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"unilodge/internal/infra/config"
	"unilodge/internal/infra/obs"
)

type ChatStreamHTTP interface {
	Stream(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Chat           ChatHTTP
	ChatStream     ChatStreamHTTP
	Property       PropertyHTTP
	Booking        BookingHTTP
	Review         ReviewHTTP
	Wishlist       WishlistHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Chat != nil {
		api.GET("/chat/conversations", h.Chat.ListConversations)
		api.GET("/chat/threads/:user/messages", h.Chat.ListThreadMessages)
		api.POST("/chat/threads/:user/read", h.Chat.MarkThreadRead)
		api.POST("/chat/messages", h.Chat.SendMessage)
	}
	if h.ChatStream != nil {
		api.GET("/chat/ws", h.ChatStream.Stream)
	}
	if h.Property != nil {
		api.GET("/properties", h.Property.Catalog)
		api.GET("/properties/featured", h.Property.Featured)
		api.GET("/properties/:id", h.Property.Get)
		api.POST("/properties", h.Property.Create)
		api.PUT("/properties/:id", h.Property.Update)
		api.POST("/properties/:id/photos", h.Property.UploadPhoto)
		api.GET("/landlord/properties", h.Property.MyListings)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/me/bookings", h.Booking.ListMine)
		api.GET("/properties/:id/bookings", h.Booking.ListForProperty)
	}
	if h.Review != nil {
		api.POST("/properties/:id/reviews", h.Review.Submit)
		api.GET("/properties/:id/reviews", h.Review.ListForProperty)
	}
	if h.Wishlist != nil {
		api.POST("/wishlist/:id", h.Wishlist.Toggle)
		api.GET("/wishlist", h.Wishlist.List)
	}
	if h.Me != nil {
		api.PATCH("/me/profile", h.Me.UpdateProfile)
		api.POST("/me/avatar", h.Me.UploadAvatar)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
