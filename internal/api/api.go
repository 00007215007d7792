package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/procurehq/lpoflow/internal/api/handlers"
	"github.com/procurehq/lpoflow/internal/api/middleware"
	"github.com/procurehq/lpoflow/internal/auth"
	"github.com/procurehq/lpoflow/internal/service"
)

type Services struct {
	Auth             auth.Provider
	VendorService    *service.VendorService
	LpoService       *service.LpoService
	DashboardService *service.DashboardService
	ReminderService  *service.ReminderService
	ReportService    *service.ReportService
	ExportService    *service.ExportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(services.Auth)
	apiGroup.POST("/auth/login", authHandler.Login)

	protected := apiGroup.Group("")
	protected.Use(middleware.Auth(services.Auth))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		vendorHandler := handlers.NewVendorHandler(services.VendorService)
		vendorGroup := protected.Group("/vendors")
		{
			vendorGroup.GET("", vendorHandler.List)
			vendorGroup.POST("", vendorHandler.Create)
			vendorGroup.GET("/:id", vendorHandler.Get)
			vendorGroup.PUT("/:id", vendorHandler.Update)
			vendorGroup.DELETE("/:id", vendorHandler.Delete)
		}

		lpoHandler := handlers.NewLpoHandler(services.LpoService, services.ExportService)
		lpoGroup := protected.Group("/lpos")
		{
			lpoGroup.GET("", lpoHandler.List)
			lpoGroup.GET("/:id", lpoHandler.Get)
			lpoGroup.PATCH("/:id/status", lpoHandler.SetStatus)
			lpoGroup.PATCH("/:id/payment-status", lpoHandler.SetPaymentStatus)
			lpoGroup.POST("/:id/payments", lpoHandler.RecordPayment)
			lpoGroup.POST("/:id/export", lpoHandler.Export)
			lpoGroup.DELETE("/:id", lpoHandler.Delete)
		}

		wizardHandler := handlers.NewWizardHandler(services.LpoService)
		wizardGroup := protected.Group("/wizard/drafts")
		{
			wizardGroup.POST("", wizardHandler.Start)
			wizardGroup.GET("/:id", wizardHandler.Get)
			wizardGroup.PUT("/:id/vendor", wizardHandler.SelectVendor)
			wizardGroup.POST("/:id/vendor", wizardHandler.CreateVendor)
			wizardGroup.POST("/:id/items", wizardHandler.AddItem)
			wizardGroup.PUT("/:id/items/:itemId", wizardHandler.UpdateItem)
			wizardGroup.DELETE("/:id/items/:itemId", wizardHandler.RemoveItem)
			wizardGroup.POST("/:id/next", wizardHandler.Next)
			wizardGroup.POST("/:id/back", wizardHandler.Back)
			wizardGroup.PUT("/:id/review", wizardHandler.Review)
			wizardGroup.POST("/:id/submit", wizardHandler.Submit)
		}

		dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
		protected.GET("/dashboard/summary", dashboardHandler.GetSummary)

		registerHandler := handlers.NewRegisterHandler(services.ReminderService, services.ReportService)
		protected.GET("/reminders", registerHandler.ListReminders)
		protected.POST("/reminders", registerHandler.CreateReminder)
		protected.GET("/reports", registerHandler.ListReports)
		protected.POST("/reports/send", registerHandler.SendReport)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
