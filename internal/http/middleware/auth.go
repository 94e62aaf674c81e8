package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/platform/apierr"
	"github.com/accentdojo/accentdojo-backend/internal/platform/ctxutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/services"
)

const SessionCookieName = "session"

// SessionCookie writes and clears the session cookie.
type SessionCookie struct {
	Domain string
	Secure bool
}

func (sc SessionCookie) Set(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", sc.Domain, sc.Secure, true)
}

func (sc SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", sc.Domain, sc.Secure, true)
}

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      SessionCookie
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, cookie SessionCookie) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService, cookie: cookie}
}

func (am *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			response.RespondAPIError(c, am.log, apierr.Unauthorized("missing session"))
			return
		}
		ctx, refreshed, err := am.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if apierr.HasCode(err, apierr.CodeUnauthorized) {
				am.cookie.Clear(c)
			}
			response.RespondAPIError(c, am.log, err)
			return
		}
		if refreshed != "" {
			am.cookie.Set(c, refreshed, am.authService.SessionTTL())
		}
		c.Request = c.Request.WithContext(ctx)
		if rd := ctxutil.GetRequestData(ctx); rd == nil || rd.UserID == 0 {
			response.RespondAPIError(c, am.log, apierr.Forbidden("forbidden"))
			return
		}
		c.Next()
	}
}
