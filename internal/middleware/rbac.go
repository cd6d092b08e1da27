package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noticehub/notice-board-api/internal/service"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// RequireAdmin gates routes behind the session authority's admin verdict.
// The verdict keeps unauthenticated and insufficient-role responses
// distinct (401 vs 403).
func RequireAdmin(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.RequireAdmin(c.Request.Context(), Token(c)); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
