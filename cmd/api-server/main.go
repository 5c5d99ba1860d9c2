package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shohorbari/database"
	"shohorbari/internal/cache"
	"shohorbari/internal/config"
	"shohorbari/internal/events"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/repository"
	"shohorbari/internal/microservices/http-api/service"
	"shohorbari/internal/microservices/websocket"
	"shohorbari/internal/notify"
	"shohorbari/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const (
	janitorInterval = time.Hour
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	adRepo := repository.NewAdvertisementRepository(db)
	imageRepo := repository.NewImageRepository(db)
	rentRequestRepo := repository.NewRentRequestRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Optional collaborators
	var statsCache service.StatsCache
	if cfg.RedisURL != "" && cfg.StatsCacheTTL > 0 {
		rdb, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		statsCache = cache.NewStatsCache(rdb, cfg.StatsCacheTTL, logger)
		logger.Info("dashboard stats cache enabled", "ttl", cfg.StatsCacheTTL)
	}

	publisher := events.Nop()
	if cfg.NATSURL != "" {
		publisher, err = events.ConnectNATS(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
	}
	defer publisher.Close()

	blobs, mediaRoot, err := newBlobStore(cfg)
	if err != nil {
		return err
	}

	hub := websocket.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	dispatcher := notify.NewDispatcher(cfg.NotifyWorkers, notificationRepo, hub, publisher, logger)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	svcs := services{
		auth:          authService,
		categories:    service.NewCategoryService(categoryRepo),
		ads:           service.NewAdvertisementService(adRepo, categoryRepo, imageRepo, blobs, dispatcher, logger),
		images:        service.NewImageService(imageRepo, adRepo, blobs, cfg.UploadMaxSize, logger),
		rentRequests:  service.NewRentRequestService(rentRequestRepo, adRepo, dispatcher),
		favorites:     service.NewFavoriteService(favoriteRepo, adRepo),
		reviews:       service.NewReviewService(reviewRepo, adRepo, userRepo),
		stats:         service.NewStatsService(statsRepo, statsCache),
		notifications: service.NewNotificationService(notificationRepo),
	}

	if cfg.AdminEmail != "" {
		bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		admin, err := authService.EnsureAdmin(bootCtx, cfg.AdminEmail, cfg.AdminPassword)
		cancel()
		if err != nil {
			return err
		}
		logger.Info("admin account ready", "user_id", admin.ID, "email", admin.Email)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go janitor(ctx, authService, limiter, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(routerDeps{
		services:  svcs,
		hub:       hub,
		limiter:   limiter,
		logger:    logger,
		mediaRoot: mediaRoot,
		mediaURL:  cfg.MediaBaseURL,
		maxUpload: cfg.UploadMaxSize,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	// flush queued notifications while the sockets are still open
	dispatcher.Close()
	stopHub()
	logger.Info("server stopped gracefully")
	return nil
}

// newBlobStore picks S3 when a bucket is configured and local disk otherwise.
// mediaRoot is only set for the disk store, which the router then serves.
func newBlobStore(cfg *config.Config) (storage.BlobStore, string, error) {
	if cfg.UsesS3() {
		store, err := storage.NewS3Store(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		return store, "", err
	}
	store, err := storage.NewDiskStore(cfg.MediaPath, cfg.MediaBaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.Root(), nil
}

// janitor purges expired refresh tokens and idle rate limiter entries
func janitor(ctx context.Context, auth service.AuthService, limiter *middleware.RateLimiter, logger *slog.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := auth.PurgeExpiredTokens(ctx)
			if err != nil {
				logger.Warn("purge expired refresh tokens", "error", err)
			}
			swept := limiter.Sweep()
			logger.Debug("janitor run", "refresh_tokens_purged", purged, "limiters_swept", swept)
		}
	}
}
