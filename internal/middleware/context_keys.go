package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/givetrack/givetrack_backend/internal/core/domain"
)

// callerKey is the key used to store the authenticated caller in the context.
// Using a custom type prevents collisions.
const callerKey = contextKey("caller")

// GetCallerFromContext retrieves the authenticated caller from the Gin
// context. It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.Caller, bool) {
	callerVal, exists := c.Get(string(callerKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(callerKey)
		if ctxVal != nil {
			caller, ok := ctxVal.(domain.Caller)
			return caller, ok
		}
		return domain.Caller{}, false
	}

	caller, ok := callerVal.(domain.Caller)
	if !ok {
		return domain.Caller{}, false
	}
	return caller, true
}
