package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oikos/disc-backend/internal/config"
	"github.com/oikos/disc-backend/internal/handler"
	"github.com/oikos/disc-backend/internal/metrics"
	"github.com/oikos/disc-backend/internal/middleware"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
)

// catalogMaxAge is how long clients may cache the questionnaire (1 hour).
const catalogMaxAge = 3600

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Flow          *handler.FlowHandler
	Admin         *handler.AdminHandler
	Questionnaire *handler.QuestionnaireHandler
	WS            *handler.WSHandler
}

// Deps carries the shared services and middleware dependencies.
type Deps struct {
	Auth        *service.AuthService
	Sessions    middleware.SessionChecker
	LoginLimit  *middleware.RateLimiter
	Metrics     *metrics.Metrics
	MetricsFrom prometheus.Gatherer
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(deps Deps, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(deps.Metrics.Middleware())

	// Health check and Prometheus scrape endpoint.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})
	gatherer := deps.MetricsFrom
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	api.Use(middleware.Brotli())

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := api.Group("/public")
	publicAPI.Use(middleware.CacheControl(catalogMaxAge))
	{
		publicAPI.GET("/questionnaire", handlers.Questionnaire.GetQuestionnaire)
	}

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		if deps.LoginLimit != nil {
			auth.POST("/login", deps.LoginLimit.Middleware(), handlers.Auth.Login)
		} else {
			auth.POST("/login", handlers.Auth.Login)
		}

		authed := auth.Group("")
		authed.Use(middleware.RequireJWT(deps.Auth), middleware.CheckSession(deps.Sessions))
		{
			authed.GET("/me", handlers.Auth.Me)
			authed.POST("/logout", handlers.Auth.Logout)
		}
	}

	// ─── 2. Flow Group (Session JWT) ───────────────────────────────────
	flowAPI := api.Group("/flow")
	flowAPI.Use(
		middleware.NoStore(),
		middleware.RequireJWT(deps.Auth),
		middleware.CheckSession(deps.Sessions),
	)
	{
		flowAPI.GET("", handlers.Flow.GetView)
		flowAPI.POST("/start", handlers.Flow.Start)
		flowAPI.PUT("/answers/:index", handlers.Flow.SetAnswer)
		flowAPI.POST("/submit", handlers.Flow.Submit)
		flowAPI.POST("/reset", handlers.Flow.Reset)
		flowAPI.POST("/my-results", handlers.Flow.MyResults)
		flowAPI.GET("/results/pdf", handlers.Flow.ResultPDF)
	}

	// ─── 3. Admin Group (Admin role claim) ─────────────────────────────
	admin := api.Group("/admin")
	admin.Use(
		middleware.NoStore(),
		middleware.RequireJWT(deps.Auth),
		middleware.CheckSession(deps.Sessions),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		admin.GET("/results", handlers.Admin.ListResults)
		admin.GET("/results/export", handlers.Admin.ExportResults)
		admin.GET("/dashboard", handlers.Admin.Dashboard)
	}

	// ─── 4. WebSocket Group (Token query auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(
		middleware.RequireWSAuth(deps.Auth),
		middleware.CheckSession(deps.Sessions),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		ws.GET("/admin/results/stream", handlers.WS.ResultStream)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}
