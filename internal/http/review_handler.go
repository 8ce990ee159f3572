package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/service"
)

// ReviewHandler expone las reseñas de alojamientos.
type ReviewHandler struct {
	logger  *zap.Logger
	reviews *service.ReviewService
}

func NewReviewHandler(logger *zap.Logger, reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		logger:  logger,
		reviews: reviews,
	}
}

// Create maneja POST /listings/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create review", err)
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), claims.UserID, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.logger, "create review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// List maneja GET /listings/:id/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	summary, err := h.reviews.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list reviews", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Respond maneja POST /reviews/:id/response.
func (h *ReviewHandler) Respond(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "respond review", err)
		return
	}
	review, err := h.reviews.Respond(c.Request.Context(), claims.UserID, c.Param("id"), req.Response)
	if err != nil {
		respondError(c, h.logger, "respond review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}
