package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/metrics"
	"livix-api/internal/service"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Users        *UserHandler
	Roommates    *RoommateHandler
	Messages     *MessageHandler
	Listings     *ListingHandler
	Applications *ApplicationHandler
	Reviews      *ReviewHandler
	Analytics    *AnalyticsHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userSvc *service.UserService,
	h Handlers,
	metricsEnabled bool,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())
	if metricsEnabled {
		r.Use(metricsMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Rutas publicas.
	r.GET("/onboarding/steps", OnboardingSteps)
	public := r.Group("/listings", OptionalJWTAuthMiddleware(jwtSvc), UserSyncMiddleware(logger, userSvc))
	public.POST("/search", h.Listings.Search)
	public.GET("/:id", h.Listings.Get)
	public.GET("/:id/reviews", h.Reviews.List)
	public.POST("/:id/views", h.Listings.TrackView)

	auth := r.Group("", JWTAuthMiddleware(jwtSvc), UserSyncMiddleware(logger, userSvc))
	auth.GET("/me", h.Users.Me)

	roommates := auth.Group("/roommates")
	roommates.GET("/me", h.Roommates.GetMine)
	roommates.PUT("/me", h.Roommates.SaveMine)
	roommates.POST("/search", h.Roommates.Search)
	roommates.POST("/:id/like", h.Roommates.Like)
	roommates.DELETE("/:id/like", h.Roommates.Unlike)
	roommates.GET("/matches", h.Roommates.Matches)

	messages := auth.Group("/messages")
	messages.GET("", h.Messages.List)
	messages.GET("/stream", h.Messages.Stream)
	messages.GET("/:participant_id", h.Messages.History)
	messages.POST("/:participant_id", h.Messages.Send)
	messages.POST("/:participant_id/read", h.Messages.MarkRead)

	landlord := auth.Group("", RequireRole(domain.RoleLandlord, domain.RoleAdmin))
	landlord.POST("/listings/draft/validate", h.Listings.ValidateDraft)
	landlord.POST("/listings", h.Listings.Publish)
	landlord.PATCH("/applications/:id/status", h.Applications.UpdateStatus)
	landlord.POST("/reviews/:id/response", h.Reviews.Respond)
	landlord.GET("/landlord/analytics", h.Analytics.Report)

	students := auth.Group("", RequireRole(domain.RoleStudent))
	students.POST("/applications", h.Applications.Create)
	students.POST("/applications/:id/cancel", h.Applications.Cancel)
	students.POST("/listings/:id/reviews", h.Reviews.Create)

	auth.GET("/applications", h.Applications.List)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// metricsMiddleware cuenta peticiones por ruta registrada, no por path, para acotar las series.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
