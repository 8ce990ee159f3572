package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/service"
)

// ApplicationHandler expone las solicitudes de alquiler.
type ApplicationHandler struct {
	logger       *zap.Logger
	applications *service.ApplicationService
}

func NewApplicationHandler(logger *zap.Logger, applications *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		logger:       logger,
		applications: applications,
	}
}

// Create maneja POST /applications.
func (h *ApplicationHandler) Create(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		ListingID    string     `json:"listing_id" binding:"required"`
		Message      string     `json:"message" binding:"required"`
		MoveInDate   time.Time  `json:"move_in_date" binding:"required"`
		MoveOutDate  *time.Time `json:"move_out_date"`
		BudgetEUR    int        `json:"budget_eur" binding:"required"`
		StudentName  string     `json:"student_name" binding:"required"`
		StudentEmail string     `json:"student_email" binding:"required,email"`
		IsErasmus    bool       `json:"is_erasmus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create application", err)
		return
	}

	app, err := h.applications.Create(c.Request.Context(), claims.UserID, service.CreateApplicationInput{
		ListingID:    req.ListingID,
		Message:      req.Message,
		MoveInDate:   req.MoveInDate,
		MoveOutDate:  req.MoveOutDate,
		BudgetEUR:    req.BudgetEUR,
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		IsErasmus:    req.IsErasmus,
	})
	if err != nil {
		respondError(c, h.logger, "create application", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// List maneja GET /applications.
func (h *ApplicationHandler) List(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	apps, err := h.applications.List(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		respondError(c, h.logger, "list applications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// UpdateStatus maneja PATCH /applications/:id/status.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Status domain.ApplicationStatus `json:"status" binding:"required"`
		Reason string                   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update application status", err)
		return
	}
	app, err := h.applications.UpdateStatus(c.Request.Context(), claims.UserID, c.Param("id"), req.Status, req.Reason)
	if err != nil {
		respondError(c, h.logger, "update application status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}

// Cancel maneja POST /applications/:id/cancel.
func (h *ApplicationHandler) Cancel(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	app, err := h.applications.Cancel(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "cancel application", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": app})
}
