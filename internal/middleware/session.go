package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noticehub/notice-board-api/internal/service"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// Token extracts the opaque session token from the Authorization header.
func Token(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Session protects routes by requiring a live session.
func Session(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		session, err := sessions.Current(c.Request.Context(), token)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "please log in to access this resource"))
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}
