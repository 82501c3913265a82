package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/middleware"
	"github.com/givetrack/givetrack_backend/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Health check includes which document-store backend is live.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":        "ok",
			"documentStore": services.Document.StoreMode(),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations. Reads on the public catalog stay open; every
// mutation and caller-scoped read sits behind the auth middleware.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	public := r.Group("/api/v1")
	registerPublicCharityRoutes(public, services.Charity)
	registerPublicProjectRoutes(public, services.Project)
	registerPublicStatisticsRoutes(public, services.Statistics)
	registerPublicDocumentRoutes(public, services.Document)

	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	registerCharityRoutes(v1, services.Charity)
	registerProjectRoutes(v1, services.Project)
	registerDonationRoutes(v1, services.Donation)
	registerStatisticsRoutes(v1, services.Statistics)
	registerDocumentRoutes(v1, services.Document)
}
