package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/gst-invoice-api/internal/application/service"
	"github.com/sangkips/gst-invoice-api/internal/domain/entity"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gst-invoice-api/internal/presentation/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	log         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"photo":       u.Photo,
		"provider":    u.Provider,
		"roles":       u.GetRoleNames(),
		"permissions": u.GetPermissions(),
		"onboarded":   u.Profile.IsOnboarded(),
	}
}

func authPayload(out *service.AuthOutput) gin.H {
	return gin.H{
		"user":          userPayload(out.User),
		"access_token":  out.Tokens.AccessToken,
		"refresh_token": out.Tokens.RefreshToken,
		"token_type":    out.Tokens.TokenType,
		"expires_in":    out.Tokens.ExpiresIn,
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", authPayload(output))
}

// Signup handles user registration
// @Summary Signup
// @Description Create a new user account and sign it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.SignupRequest true "Signup data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req request.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.Signup(c.Request.Context(), &service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Signup successful", authPayload(output))
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", authPayload(output))
}

// Logout revokes the presented access token
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), GetClaims(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}

// Session reports whether the bearer token, if any, is still signed in
// @Summary Session status
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	response.OK(c, "Session status retrieved", gin.H{
		"logged_in": h.authService.IsLoggedIn(c.Request.Context(), token),
	})
}

// Me returns the signed-in user
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", gin.H{"user": userPayload(user)})
}

// GoogleAuth redirects to the Google consent screen
// @Summary Google sign-in
// @Tags auth
// @Success 307
// @Router /auth/google [get]
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	authURL, err := h.authService.GoogleAuthURL()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes Google sign-in. With frontend URLs configured the
// browser is redirected there, tokens travelling in the URL fragment;
// otherwise the tokens are returned as JSON.
// @Summary Google sign-in callback
// @Tags auth
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} response.APIResponse
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	successURL, errorURL := h.authService.GoogleRedirects()

	if reason := c.Query("error"); reason != "" {
		h.failGoogle(c, errorURL, reason)
		return
	}

	output, err := h.authService.GoogleCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		h.log.Warn("google sign-in failed", zap.Error(err))
		if errorURL == "" {
			response.Error(c, err)
			return
		}
		h.failGoogle(c, errorURL, "authentication_failed")
		return
	}

	if successURL == "" {
		response.OK(c, "Login successful", authPayload(output))
		return
	}

	fragment := url.Values{}
	fragment.Set("access_token", output.Tokens.AccessToken)
	fragment.Set("refresh_token", output.Tokens.RefreshToken)
	fragment.Set("token_type", output.Tokens.TokenType)
	c.Redirect(http.StatusFound, successURL+"#"+fragment.Encode())
}

func (h *AuthHandler) failGoogle(c *gin.Context, errorURL, reason string) {
	if errorURL == "" {
		response.BadRequest(c, "Google sign-in failed: "+reason)
		return
	}
	c.Redirect(http.StatusFound, errorURL+"?error="+url.QueryEscape(reason))
}
