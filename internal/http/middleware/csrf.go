package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
)

// CSRF rejects state-changing requests that carry neither X-Requested-With
// nor an Origin equal to siteLink.
func CSRF(siteLink string) gin.HandlerFunc {
	site := strings.TrimRight(strings.TrimSpace(siteLink), "/")
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetHeader("X-Requested-With") != "" {
			c.Next()
			return
		}
		origin := strings.TrimRight(c.GetHeader("Origin"), "/")
		if site != "" && origin == site {
			c.Next()
			return
		}
		response.RespondAPIError(c, nil, apierr.Forbidden("cross-site request rejected"))
	}
}
