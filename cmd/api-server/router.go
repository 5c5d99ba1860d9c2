package main

import (
	"log/slog"
	"net/http"
	"strings"

	"shohorbari/internal/microservices/http-api/handler"
	"shohorbari/internal/microservices/http-api/middleware"
	"shohorbari/internal/microservices/http-api/service"
	"shohorbari/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
)

type services struct {
	auth          service.AuthService
	categories    service.CategoryService
	ads           service.AdvertisementService
	images        service.ImageService
	rentRequests  service.RentRequestService
	favorites     service.FavoriteService
	reviews       service.ReviewService
	stats         service.StatsService
	notifications service.NotificationService
}

type routerDeps struct {
	services  services
	hub       *websocket.Hub
	limiter   *middleware.RateLimiter
	logger    *slog.Logger
	mediaRoot string // empty when images live in S3
	mediaURL  string
	maxUpload int64
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.logger))
	r.MaxMultipartMemory = 8 << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.mediaRoot != "" && strings.HasPrefix(d.mediaURL, "/") {
		r.Static(d.mediaURL, d.mediaRoot)
	}

	api := r.Group("/api")
	// the socket authenticates itself from the query string
	api.GET("/ws/notifications", websocket.WSHandler(d.hub, d.services.auth))

	api.Use(middleware.Authenticate(d.services.auth), d.limiter.Middleware())

	handlers := []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handler.NewAuthHandler(d.services.auth),
		handler.NewCategoryHandler(d.services.categories),
		handler.NewAdvertisementHandler(d.services.ads),
		handler.NewImageHandler(d.services.images, d.maxUpload),
		handler.NewReviewHandler(d.services.reviews),
		handler.NewRentRequestHandler(d.services.rentRequests),
		handler.NewFavoriteHandler(d.services.favorites),
		handler.NewStatsHandler(d.services.stats),
		handler.NewNotificationHandler(d.services.notifications),
	}
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return r
}
