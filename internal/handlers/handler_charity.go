package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/givetrack/givetrack_backend/internal/core/ports/services"
	"github.com/givetrack/givetrack_backend/internal/dto"
	"github.com/givetrack/givetrack_backend/internal/middleware"
)

// charityHandler handles HTTP requests related to charities.
type charityHandler struct {
	charityService portssvc.CharitySvcFacade
}

func newCharityHandler(cs portssvc.CharitySvcFacade) *charityHandler {
	return &charityHandler{charityService: cs}
}

// registerCharityRoutes registers the authenticated charity routes.
func registerCharityRoutes(rg *gin.RouterGroup, charityService portssvc.CharitySvcFacade) {
	h := newCharityHandler(charityService)

	charities := rg.Group("/charities")
	{
		charities.POST("", h.registerCharity)
		charities.PUT("/:id", h.updateCharity)
		charities.POST("/:id/verify", h.verifyCharity)
		charities.POST("/:id/reject", h.rejectCharity)
		charities.POST("/:id/suspend", h.suspendCharity)
	}
}

// registerPublicCharityRoutes registers the read-only charity routes.
func registerPublicCharityRoutes(rg *gin.RouterGroup, charityService portssvc.CharitySvcFacade) {
	h := newCharityHandler(charityService)

	charities := rg.Group("/charities")
	{
		charities.GET("", h.listCharities)
		charities.GET("/:id", h.getCharityByID)
	}
}

func (h *charityHandler) registerCharity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterCharity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charity, err := h.charityService.RegisterCharity(c.Request.Context(), req, caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCharityResponse(charity))
}

func (h *charityHandler) getCharityByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	charity, err := h.charityService.GetCharityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityResponse(charity))
}

func (h *charityHandler) updateCharity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCharity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charity, err := h.charityService.UpdateCharity(c.Request.Context(), c.Param("id"), req, caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityResponse(charity))
}

func (h *charityHandler) verifyCharity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charity, err := h.charityService.VerifyCharity(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityResponse(charity))
}

func (h *charityHandler) rejectCharity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectCharityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectCharity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charity, err := h.charityService.RejectCharity(c.Request.Context(), c.Param("id"), req.Reason, caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityResponse(charity))
}

func (h *charityHandler) suspendCharity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	charity, err := h.charityService.SuspendCharity(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCharityResponse(charity))
}

func (h *charityHandler) listCharities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCharitiesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.charityService.ListCharities(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
