package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/service"
)

// RoommateHandler expone perfiles de convivencia, busqueda y likes.
type RoommateHandler struct {
	logger    *zap.Logger
	roommates *service.RoommateService
	matches   *service.MatchService
}

func NewRoommateHandler(logger *zap.Logger, roommates *service.RoommateService, matches *service.MatchService) *RoommateHandler {
	return &RoommateHandler{
		logger:    logger,
		roommates: roommates,
		matches:   matches,
	}
}

// GetMine maneja GET /roommates/me.
func (h *RoommateHandler) GetMine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	profile, err := h.roommates.GetMine(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, "get roommate profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SaveMine maneja PUT /roommates/me.
func (h *RoommateHandler) SaveMine(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Name       string                  `json:"name" binding:"required"`
		Age        int                     `json:"age" binding:"omitempty,min=16,max=99"`
		Bio        string                  `json:"bio" binding:"max=1000"`
		Studies    string                  `json:"studies"`
		University string                  `json:"university"`
		Location   string                  `json:"location"`
		Images     []string                `json:"images" binding:"max=10"`
		Tags       []string                `json:"tags"`
		Interests  []string                `json:"interests"`
		BudgetMin  *int                    `json:"budget_min" binding:"omitempty,min=0"`
		BudgetMax  *int                    `json:"budget_max" binding:"omitempty,min=0"`
		Active     *bool                   `json:"active"`
		Lifestyle  *domain.AttributeVector `json:"lifestyle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "save roommate profile", err)
		return
	}

	profile, err := h.roommates.SaveMine(c.Request.Context(), claims.UserID, claims.Verified, service.ProfileInput{
		Name:       req.Name,
		Age:        req.Age,
		Bio:        req.Bio,
		Studies:    req.Studies,
		University: req.University,
		Location:   req.Location,
		Images:     req.Images,
		Tags:       req.Tags,
		Interests:  req.Interests,
		BudgetMin:  req.BudgetMin,
		BudgetMax:  req.BudgetMax,
		Active:     req.Active,
		Lifestyle:  req.Lifestyle,
	})
	if err != nil {
		respondError(c, h.logger, "save roommate profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Search maneja POST /roommates/search.
func (h *RoommateHandler) Search(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	var req struct {
		Lifestyle    *domain.AttributeVector `json:"lifestyle"`
		Search       string                  `json:"search"`
		Zones        []string                `json:"zones"`
		VerifiedOnly bool                    `json:"verified_only"`
		ExcludeLiked *bool                   `json:"exclude_liked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "roommate search", err)
		return
	}
	if req.Lifestyle != nil {
		if err := req.Lifestyle.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	excludeLiked := true
	if req.ExcludeLiked != nil {
		excludeLiked = *req.ExcludeLiked
	}

	candidates, err := h.roommates.Search(c.Request.Context(), claims.UserID, service.SearchInput{
		Reference: req.Lifestyle,
		Filter: service.CandidateFilter{
			Search:       req.Search,
			Zones:        req.Zones,
			VerifiedOnly: req.VerifiedOnly,
		},
		ExcludeLiked: excludeLiked,
	})
	if err != nil {
		respondError(c, h.logger, "roommate search", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "total": len(candidates)})
}

// Like maneja POST /roommates/:id/like.
func (h *RoommateHandler) Like(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	res, err := h.matches.Like(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "like roommate", err)
		return
	}
	status := http.StatusOK
	if res.Matched {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

// Unlike maneja DELETE /roommates/:id/like.
func (h *RoommateHandler) Unlike(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	if err := h.matches.Unlike(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		respondError(c, h.logger, "unlike roommate", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Matches maneja GET /roommates/matches.
func (h *RoommateHandler) Matches(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}
	matches, err := h.matches.Matches(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, h.logger, "list matches", err)
		return
	}
	type matchView struct {
		domain.RoommateMatch
		UserID string `json:"user_id"`
	}
	out := make([]matchView, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchView{RoommateMatch: m, UserID: m.Other(claims.UserID)})
	}
	c.JSON(http.StatusOK, gin.H{"matches": out})
}
