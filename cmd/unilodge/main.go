package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authsvc "unilodge/internal/app/services/auth"
	bookingsvc "unilodge/internal/app/services/booking"
	chatsvc "unilodge/internal/app/services/chat"
	profilesvc "unilodge/internal/app/services/profile"
	propertysvc "unilodge/internal/app/services/property"
	reviewsvc "unilodge/internal/app/services/review"
	wishlistsvc "unilodge/internal/app/services/wishlist"
	domainauth "unilodge/internal/domain/auth"
	domainbooking "unilodge/internal/domain/booking"
	domainchat "unilodge/internal/domain/chat"
	domainproperty "unilodge/internal/domain/property"
	domainreview "unilodge/internal/domain/review"
	domainuser "unilodge/internal/domain/user"
	domainwishlist "unilodge/internal/domain/wishlist"
	"unilodge/internal/infra/broker/kafka"
	"unilodge/internal/infra/config"
	mongostore "unilodge/internal/infra/db/mongo"
	ginserver "unilodge/internal/infra/http/gin"
	"unilodge/internal/infra/obs"
	"unilodge/internal/infra/realtime"
	"unilodge/internal/infra/security"
	"unilodge/internal/infra/storage/memory"
	"unilodge/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = "memory"
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	repos, ready, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	publisher, consumer := buildChatTransport(cfg, hub, logger)

	uploader := buildUploader(cfg, logger)

	authService := &authsvc.Service{
		Users:      repos.users,
		Sessions:   repos.sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	chatService := &chatsvc.Service{
		Messages:   repos.messages,
		Users:      repos.users,
		Properties: repos.properties,
		Publisher:  publisher,
		Logger:     logger,
	}
	propertyService := &propertysvc.Service{Properties: repos.properties, Uploader: uploader, Logger: logger}
	bookingService := &bookingsvc.Service{Bookings: repos.bookings, Properties: repos.properties, Logger: logger}
	reviewService := &reviewsvc.Service{Reviews: repos.reviews, Properties: repos.properties, Users: repos.users, Logger: logger}
	wishlistService := &wishlistsvc.Service{Wishlists: repos.wishlists, Properties: repos.properties, Logger: logger}
	profileService := &profilesvc.Service{Users: repos.users, Uploader: uploader, Logger: logger}

	handlers := ginserver.Handlers{
		Auth:       ginserver.AuthHandler{Service: authService, Logger: logger},
		Chat:       ginserver.ChatHandler{Service: chatService, Logger: logger},
		ChatStream: ginserver.ChatWSHandler{Service: chatService, Hub: hub, Logger: logger},
		Property:   ginserver.PropertyHandler{Service: propertyService, Logger: logger},
		Booking:    ginserver.BookingHandler{Service: bookingService, Logger: logger},
		Review:     ginserver.ReviewHandler{Service: reviewService, Logger: logger},
		Wishlist:   ginserver.WishlistHandler{Service: wishlistService, Logger: logger},
		Me:         ginserver.MeHandler{Service: profileService, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, handlers)

	if consumer != nil {
		go func() {
			topics := []string{kafka.MessageSentTopic(cfg.KafkaTopicPrefix)}
			if err := consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("chat consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("consumer close failed", "error", err)
			}
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type repositories struct {
	users      domainuser.Repository
	sessions   domainauth.SessionStore
	messages   domainchat.Repository
	properties domainproperty.Repository
	bookings   domainbooking.Repository
	reviews    domainreview.Repository
	wishlists  domainwishlist.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func() error, error) {
	if cfg.StorageMode == "mongo" {
		client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return repositories{}, nil, err
		}
		users := mongostore.NewUserRepository(client.DB)
		sessions := mongostore.NewSessionStore(client.DB)
		if err := users.EnsureIndexes(ctx); err != nil {
			logger.Warn("user index setup failed", "error", err)
		}
		if err := sessions.EnsureIndexes(ctx); err != nil {
			logger.Warn("session index setup failed", "error", err)
		}
		repos := repositories{
			users:      users,
			sessions:   sessions,
			messages:   mongostore.NewMessageRepository(client.DB),
			properties: mongostore.NewPropertyRepository(client.DB),
			bookings:   mongostore.NewBookingRepository(client.DB),
			reviews:    mongostore.NewReviewRepository(client.DB),
			wishlists:  mongostore.NewWishlistRepository(client.DB),
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		return repos, ready, nil
	}

	repos := repositories{
		users:      memory.NewUserRepository(),
		sessions:   memory.NewSessionStore(),
		messages:   memory.NewMessageRepository(),
		properties: memory.NewPropertyRepository(),
		bookings:   memory.NewBookingRepository(),
		reviews:    memory.NewReviewRepository(),
		wishlists:  memory.NewWishlistRepository(),
	}
	return repos, func() error { return nil }, nil
}

// buildChatTransport picks the fan-out path for persisted messages: Kafka when
// brokers are configured (multi-instance), otherwise straight to the local hub.
func buildChatTransport(cfg config.Config, hub *realtime.Hub, logger *slog.Logger) (chatsvc.Publisher, *kafka.Consumer) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("chat events in-process", "reason", "no kafka brokers configured")
		return hub, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
	if err != nil {
		logger.Warn("kafka producer init failed, chat events in-process", "error", err)
		return hub, nil
	}
	handler := kafka.ChatEventHandler{Sink: hub, Logger: logger}
	// Unique group per instance: the topic is a broadcast to every hub, not a
	// work queue.
	group := kafka.InstanceGroup(cfg.KafkaGroupID)
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, group, nil, handler)
	if err != nil {
		logger.Warn("kafka consumer init failed, chat events in-process", "error", err)
		if closeErr := producer.Close(); closeErr != nil {
			logger.Warn("kafka producer close failed", "error", closeErr)
		}
		return hub, nil
	}
	logger.Info("chat events via kafka", "brokers", cfg.KafkaBrokers, "group", group)
	return producer, consumer
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	if cfg.S3Endpoint == "" {
		logger.Info("object storage disabled", "reason", "no endpoint configured")
		return s3.Disabled{}
	}
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage init failed, uploads disabled", "error", err)
		return s3.Disabled{}
	}
	return client
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
