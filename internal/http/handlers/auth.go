package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/accentdojo/accentdojo-backend/internal/http/middleware"
	"github.com/accentdojo/accentdojo-backend/internal/http/response"
	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
	"github.com/accentdojo/accentdojo-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      middleware.SessionCookie
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService, cookie: cookie}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	token, sess, err := ah.authService.Login(c.Request.Context(), form.Get("email"), form.Get("password"))
	if err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	ah.cookie.Set(c, token, ah.authService.SessionTTL())
	response.RespondOK(c, gin.H{"ok": true, "expires_at": sess.ExpiresAt})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondAPIError(c, ah.log, err)
		return
	}
	ah.cookie.Clear(c)
	response.RespondOK(c, gin.H{"ok": true})
}
