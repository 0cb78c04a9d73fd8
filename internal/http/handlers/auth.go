package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/lms-backend/internal/http/response"
	"github.com/learnhub/lms-backend/internal/pkg/logger"
	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/services"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	log           *logger.Logger
	auth          services.AuthService
	cookieDomain  string
	accessMaxAge  time.Duration
	refreshMaxAge time.Duration
	secureCookies bool
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService, cookieDomain string, accessTTL, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		log:           log.With("handler", "AuthHandler"),
		auth:          auth,
		cookieDomain:  cookieDomain,
		accessMaxAge:  accessTTL,
		refreshMaxAge: refreshTTL,
		secureCookies: secureCookies,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	result, err := ah.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	ah.setAuthCookie(c, "accessToken", result.AccessToken, ah.accessMaxAge)
	ah.setAuthCookie(c, refreshTokenCookie, result.RefreshToken, ah.refreshMaxAge)
	response.OK(c, http.StatusOK, "logged in", result.User)
}

func (ah *AuthHandler) GetMe(c *gin.Context) {
	user, err := ah.auth.GetMe(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "current user", user)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (ah *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apierr.New(http.StatusBadRequest, "bad_request", err))
		return
	}
	if err := ah.auth.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, "password changed", nil)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshTokenCookie)
	if err != nil || token == "" {
		response.Error(c, apierr.Unauthorized("missing refresh token"))
		return
	}
	accessToken, err := ah.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	ah.setAuthCookie(c, "accessToken", accessToken, ah.accessMaxAge)
	response.OK(c, http.StatusOK, "token refreshed", nil)
}

func (ah *AuthHandler) setAuthCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", ah.cookieDomain, ah.secureCookies, true)
}
