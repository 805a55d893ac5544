package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

const (
	// ActorContextKey is the context key holding the resolved actor
	ActorContextKey = "actor"
	// ActorIDHeader identifies the acting user
	ActorIDHeader = "X-Actor-ID"
	// ActorNameHeader carries the acting user's display name
	ActorNameHeader = "X-Actor-Name"
)

// Actor resolves the acting user from request headers and stores it in the
// gin context. Requests without a valid actor ID are rejected.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader(ActorIDHeader)
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "missing "+ActorIDHeader+" header"))
			return
		}
		userID, err := uuid.Parse(idStr)
		if err != nil || userID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "invalid "+ActorIDHeader+" header"))
			return
		}

		name := c.GetHeader(ActorNameHeader)
		if name == "" {
			name = "unknown"
		}

		c.Set(ActorContextKey, shared.NewActor(userID, name))
		c.Next()
	}
}

// GetActor returns the actor stored by the Actor middleware
func GetActor(c *gin.Context) (shared.Actor, bool) {
	value, exists := c.Get(ActorContextKey)
	if !exists {
		return shared.Actor{}, false
	}
	actor, ok := value.(shared.Actor)
	return actor, ok
}
