package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"livix-api/internal/domain"
	"livix-api/internal/service"
)

// errorStatuses traduce errores de servicio a codigos HTTP. El primero que coincide gana.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrRoommateProfileNotFound, http.StatusNotFound},
	{service.ErrListingNotFound, http.StatusNotFound},
	{service.ErrApplicationNotFound, http.StatusNotFound},
	{service.ErrReviewNotFound, http.StatusNotFound},
	{service.ErrConversationNotFound, http.StatusNotFound},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrApplicationForbidden, http.StatusForbidden},
	{service.ErrReviewForbidden, http.StatusForbidden},
	{service.ErrDuplicateApplication, http.StatusConflict},
	{service.ErrDuplicateReview, http.StatusConflict},
	{service.ErrInvalidTransition, http.StatusConflict},
	{service.ErrLikeRateLimited, http.StatusTooManyRequests},
	{service.ErrChatStoreClosed, http.StatusServiceUnavailable},
	{domain.ErrLifestyleOutOfRange, http.StatusBadRequest},
	{service.ErrInvalidRoommateProfile, http.StatusBadRequest},
	{service.ErrSelfLike, http.StatusBadRequest},
	{service.ErrInvalidListingSort, http.StatusBadRequest},
	{service.ErrInvalidView, http.StatusBadRequest},
	{service.ErrInvalidDraft, http.StatusBadRequest},
	{service.ErrInvalidApplication, http.StatusBadRequest},
	{service.ErrOwnListingApplication, http.StatusBadRequest},
	{service.ErrInvalidReview, http.StatusBadRequest},
	{service.ErrOwnListingReview, http.StatusBadRequest},
	{service.ErrEmptyMessage, http.StatusBadRequest},
	{service.ErrMessageTooLong, http.StatusBadRequest},
	{service.ErrSelfConversation, http.StatusBadRequest},
	{service.ErrInvalidConversationID, http.StatusBadRequest},
}

// respondError escribe el error de servicio. Los errores no reconocidos se registran y
// se devuelven como 500 con un mensaje generico.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			body := gin.H{"error": err.Error()}
			var draftErr *service.DraftValidationError
			if errors.As(err, &draftErr) {
				body["step"] = draftErr.Step
				body["fields"] = draftErr.Fields
			}
			c.JSON(e.status, body)
			return
		}
	}
	logger.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func badRequest(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Warn("invalid "+op+" request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// mustClaims devuelve los claims del usuario autenticado o responde 401.
func mustClaims(c *gin.Context) (service.Claims, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return service.Claims{}, false
	}
	return claims, true
}
