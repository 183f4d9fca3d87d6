package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stock-tracker.backend/internal/interfaces/http/handlers"
	"stock-tracker.backend/internal/interfaces/http/middleware"
	"stock-tracker.backend/internal/interfaces/http/response"
)

type routeDeps struct {
	authHandler      *handlers.AuthHandler
	productHandler   *handlers.ProductHandler
	orderHandler     *handlers.OrderHandler
	dashboardHandler *handlers.DashboardHandler
	settingsHandler  *handlers.SettingsHandler
	aiHandler        *handlers.AIHandler
	authMiddleware   gin.HandlerFunc
	maintenance      bool
	authRateLimit    int
	authRateWindow   time.Duration
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	response.UseJSONFieldNames()

	v1 := r.Group("/api/v1")
	v1.Use(middleware.MaintenanceMiddleware(d.maintenance))
	{
		throttle := middleware.RateLimitMiddleware(d.authRateLimit, d.authRateWindow)

		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/send-otp", throttle, d.authHandler.SendOTP)
			auth.POST("/verify-otp", d.authHandler.VerifyOTP)
			auth.POST("/signup", d.authHandler.Signup)
			auth.POST("/login", throttle, d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.POST("/forgot-password", throttle, d.authHandler.ForgotPassword)
			auth.POST("/reset-password", d.authHandler.ResetPassword)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		protected := v1.Group("")
		protected.Use(d.authMiddleware)

		products := protected.Group("/products")
		{
			products.GET("", d.productHandler.ListProducts)
			products.POST("", d.productHandler.CreateProduct)
			products.POST("/bulk", middleware.IdempotencyMiddleware(), d.productHandler.BulkImport)
			products.GET("/export", d.productHandler.ExportProducts)
			products.GET("/import-template", d.productHandler.ImportTemplate)
			products.GET("/:id", d.productHandler.GetProduct)
			products.PATCH("/:id", d.productHandler.UpdateProduct)
			products.DELETE("/:id", d.productHandler.DeleteProduct)
		}

		protected.GET("/categories", d.productHandler.ListCategories)
		protected.GET("/orders", d.orderHandler.ListOrders)
		protected.GET("/dashboard", d.dashboardHandler.GetDashboard)
		protected.GET("/notifications", d.dashboardHandler.GetNotifications)
		protected.GET("/reports/summary", d.dashboardHandler.GetReportSummary)

		settings := protected.Group("/settings")
		{
			settings.GET("", d.settingsHandler.GetSettings)
			settings.PATCH("", d.settingsHandler.UpdateSettings)
		}

		aiRoutes := protected.Group("/ai")
		{
			aiRoutes.POST("/generate-description", d.aiHandler.GenerateDescription)
			aiRoutes.POST("/generate-email", d.aiHandler.GenerateEmail)
			aiRoutes.POST("/summarize-report", d.aiHandler.SummarizeReport)
		}
	}
}

// applyCORSMiddleware echoes allowed origins with credentials and answers
// preflight requests directly. A "*" entry allows any origin.
func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}
	_, allowAll := allowed["*"]

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || allowAll {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Id, X-Request-ID, Idempotency-Key")
				h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerMetricsRoute(r *gin.Engine, reg *prometheus.Registry) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}
