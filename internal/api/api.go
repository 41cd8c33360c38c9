// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/samhanlabs/gmvboard/internal/api/handlers"
	"github.com/samhanlabs/gmvboard/internal/api/middleware"
	"github.com/samhanlabs/gmvboard/internal/service"
)

type Services struct {
	IngestService    *service.IngestService
	DashboardService *service.DashboardService
	ContactService   *service.ContactService
	TicketService    *service.TicketService
	AuditService     *service.AuditService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-Email"},
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

	if services != nil {
		if services.IngestService != nil && services.DashboardService != nil {
			campaignHandler := handlers.NewCampaignHandler(services.IngestService, services.DashboardService)
			campaignGroup := apiGroup.Group("/campaigns")
			{
				campaignGroup.POST("/:type/upload", campaignHandler.Upload)
				campaignGroup.POST("/:type/manual", campaignHandler.ManualEntry)
				campaignGroup.GET("", campaignHandler.List)
				campaignGroup.DELETE("", campaignHandler.DeleteByDate)
			}
		}

		if services.DashboardService != nil {
			dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
			dashboardGroup := apiGroup.Group("/dashboard")
			{
				dashboardGroup.GET("/summary", dashboardHandler.GetSummary)
				dashboardGroup.GET("/trend", dashboardHandler.GetTrend)
				dashboardGroup.GET("/groups", dashboardHandler.GetTopGroups)
			}
		}

		if services.AuditService != nil {
			operationsHandler := handlers.NewOperationsHandler(services.AuditService)
			apiGroup.GET("/operations", operationsHandler.List)
		}

		if services.ContactService != nil {
			contactHandler := handlers.NewContactHandler(services.ContactService)
			contactGroup := apiGroup.Group("/contacts")
			{
				contactGroup.GET("", contactHandler.List)
				contactGroup.GET("/:id", contactHandler.Get)
			}
		}

		if services.TicketService != nil {
			ticketHandler := handlers.NewTicketHandler(services.TicketService)
			ticketGroup := apiGroup.Group("/tickets")
			{
				ticketGroup.POST("", ticketHandler.Create)
				ticketGroup.GET("", ticketHandler.List)
				ticketGroup.GET("/:id", ticketHandler.Get)
				ticketGroup.PATCH("/:id", ticketHandler.Update)
				ticketGroup.GET("/:id/messages", ticketHandler.ListMessages)
				ticketGroup.POST("/:id/messages", ticketHandler.PostMessage)
			}
		}
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
