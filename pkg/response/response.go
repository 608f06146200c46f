package response

import (
	"net/http"

	"anoa.com/wismacare/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Caller is the authenticated identity the middleware resolves for each
// request. Lifecycle operations trust this pair and do no credential checks.
type Caller struct {
	ID   uuid.UUID
	Role string
}

// GetCaller retrieves the authenticated caller from the context
func GetCaller(c *gin.Context) (Caller, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return Caller{}, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return Caller{}, apperror.ErrUnauthorized
	}

	role, exists := c.Get("user_role")
	if !exists {
		return Caller{}, apperror.ErrUnauthorized
	}

	return Caller{ID: userID, Role: role.(string)}, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors, return a generic message to the caller
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
