package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// statisticsHandler handles HTTP requests for donation aggregates.
type statisticsHandler struct {
	statsService portssvc.StatisticsSvcFacade
}

func newStatisticsHandler(ss portssvc.StatisticsSvcFacade) *statisticsHandler {
	return &statisticsHandler{statsService: ss}
}

// registerPublicStatisticsRoutes registers the open aggregate endpoints.
func registerPublicStatisticsRoutes(rg *gin.RouterGroup, statsService portssvc.StatisticsSvcFacade) {
	h := newStatisticsHandler(statsService)

	stats := rg.Group("/statistics")
	{
		stats.GET("/donations", h.getDonationStatistics)
		stats.GET("/overview", h.getPlatformOverview)
	}
}

// registerStatisticsRoutes registers the privileged aggregate endpoints.
func registerStatisticsRoutes(rg *gin.RouterGroup, statsService portssvc.StatisticsSvcFacade) {
	h := newStatisticsHandler(statsService)

	stats := rg.Group("/statistics")
	{
		stats.GET("/charities", h.getCharityOverview)
	}
}

func (h *statisticsHandler) getDonationStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.StatisticsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	stats, err := h.statsService.GetDonationStatistics(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDonationStatisticsResponse(stats))
}

func (h *statisticsHandler) getPlatformOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	topDonorLimit, _ := strconv.Atoi(c.DefaultQuery("topDonors", "10"))
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	overview, err := h.statsService.GetPlatformOverview(c.Request.Context(), topDonorLimit, months)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *statisticsHandler) getCharityOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	overview, err := h.statsService.GetCharityOverview(c.Request.Context(), caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityOverviewResponse(overview))
}
