package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/service"
)

// AnalyticsHandler expone el panel de métricas del propietario.
type AnalyticsHandler struct {
	logger    *zap.Logger
	analytics *service.AnalyticsService
}

func NewAnalyticsHandler(logger *zap.Logger, analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:    logger,
		analytics: analytics,
	}
}

// Report maneja GET /landlord/analytics?days=30.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	days := 0
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = v
	}
	report, err := h.analytics.Report(c.Request.Context(), claims.UserID, days)
	if err != nil {
		respondError(c, h.logger, "landlord analytics", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
