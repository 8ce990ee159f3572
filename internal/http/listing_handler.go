package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/service"
)

// ListingHandler expone la exploración, visitas y publicación de alojamientos.
type ListingHandler struct {
	logger   *zap.Logger
	listings *service.ListingService
}

func NewListingHandler(logger *zap.Logger, listings *service.ListingService) *ListingHandler {
	return &ListingHandler{
		logger:   logger,
		listings: listings,
	}
}

// Search maneja POST /listings/search.
func (h *ListingHandler) Search(c *gin.Context) {
	var filter service.ListingFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		badRequest(c, h.logger, "listing search", err)
		return
	}
	listings, err := h.listings.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "listing search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": len(listings)})
}

// Get maneja GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": listing})
}

// TrackView maneja POST /listings/:id/views. El token es opcional.
func (h *ListingHandler) TrackView(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id"`
		Referrer  string `json:"referrer"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, h.logger, "track view", err)
			return
		}
	}
	claims, _ := GetAuthClaims(c)
	tracked, err := h.listings.TrackView(c.Request.Context(), c.Param("id"), service.ViewInput{
		ViewerID:  claims.UserID,
		SessionID: req.SessionID,
		Referrer:  req.Referrer,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondError(c, h.logger, "track view", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"tracked": tracked})
}

// ValidateDraft maneja POST /listings/draft/validate. Sin step se valida el borrador completo.
func (h *ListingHandler) ValidateDraft(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Step  string              `json:"step"`
		Draft domain.ListingDraft `json:"draft"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "validate draft", err)
		return
	}

	flow := service.NewListingWizardFlow()
	var err error
	if req.Step == "" {
		err = service.ValidateDraft(req.Draft, claims.Premium)
	} else {
		err = service.ValidateDraftStep(req.Draft, req.Step, claims.Premium)
	}
	if err != nil {
		respondError(c, h.logger, "validate draft", err)
		return
	}

	resp := gin.H{"valid": true, "steps": flow.Steps()}
	if flow.MoveTo(req.Step) && flow.Next() {
		resp["next_step"] = flow.Current().Key
	}
	c.JSON(http.StatusOK, resp)
}

// Publish maneja POST /listings.
func (h *ListingHandler) Publish(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var draft domain.ListingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, h.logger, "publish listing", err)
		return
	}
	listing, err := h.listings.Publish(c.Request.Context(), claims.UserID, claims.Premium, draft)
	if err != nil {
		respondError(c, h.logger, "publish listing", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing": listing})
}

// OnboardingSteps maneja GET /onboarding/steps?erasmus=bool.
func OnboardingSteps(c *gin.Context) {
	erasmus := false
	if raw := c.Query("erasmus"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "erasmus must be a boolean"})
			return
		}
		erasmus = v
	}
	flow := service.NewStudentOnboardingFlow(erasmus)
	c.JSON(http.StatusOK, gin.H{"steps": flow.Steps(), "total": flow.Len()})
}
