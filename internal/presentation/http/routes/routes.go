package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/config"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gst-invoice-api/internal/domain/repository"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/handler"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/middleware"
	"github.com/sangkips/gst-invoice-api/pkg/metrics"
	"github.com/sangkips/gst-invoice-api/pkg/session"
	"github.com/sangkips/gst-invoice-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Client   *handler.ClientHandler
	Document *handler.DocumentHandler
	HSN      *handler.HSNHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Sessions        session.Store
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	// Metrics is nil when METRICS_ENABLED is false.
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", deps.Metrics.Handler())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Sessions))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/session", h.Auth.Session)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/auth/me", h.Auth.Me)
	protected.GET("/profile", h.Auth.Me)

	registerProfileRoutes(protected, h)
	registerClientRoutes(protected, h)
	registerDocumentRoutes(protected, h, deps)
	registerHSNRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerProfileRoutes(protected *gin.RouterGroup, h *Handlers) {
	profile := protected.Group("")
	profile.Use(middleware.RequirePermission(entity.PermissionManageProfile))
	{
		profile.GET("/onboarding/status", h.Profile.OnboardingStatus)
		profile.POST("/onboarding", h.Profile.CompleteOnboarding)
		profile.GET("/profile/business", h.Profile.GetProfile)
		profile.PUT("/profile/business", h.Profile.UpdateProfile)
	}
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	clients.Use(middleware.RequirePermission(entity.PermissionManageClients))
	{
		clients.GET("", h.Client.List)
		clients.GET("/search", h.Client.Search)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}

func registerDocumentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	documents := protected.Group("/documents")
	documents.Use(middleware.RequirePermission(entity.PermissionManageDocuments))
	{
		documents.POST("/preview", h.Document.Preview)
		documents.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Document.Create)
		documents.GET("", h.Document.List)
		documents.GET("/search", h.Document.Search)
		documents.GET("/:id", h.Document.Get)
		documents.GET("/:id/pdf", h.Document.PDF)
		documents.POST("/:id/print", h.Document.Print)
		documents.POST("/:id/email", h.Document.Email)
	}
}

func registerHSNRoutes(protected *gin.RouterGroup, h *Handlers) {
	hsn := protected.Group("/hsn")
	{
		hsn.GET("", h.HSN.List)
		hsn.GET("/:code", h.HSN.Get)
		hsn.POST("/import", middleware.RequirePermission(entity.PermissionManageHSN), h.HSN.Import)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	printer.Use(middleware.RequirePermission(entity.PermissionManageDocuments))
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
