package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/config"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/middleware"
	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/service"
)

type AuthHandler struct {
	authService domain.AuthService
	config      *config.Config
}

func NewAuthHandler(authService domain.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing details"})
		return
	}

	if err := h.authService.Register(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Registration successful. Check your email for verification.")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":                user.ID,
			"email":             user.Email,
			"isAccountVerified": user.IsAccountVerified,
		},
	})
}

// Logout removes the client's copy of the session credential. The token
// itself stays valid until it expires; there is no server-side session table
// to revoke it from.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	respondMessage(c, "Logged out successfully")
}

func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}
	if err := h.authService.SendVerifyOTP(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Verification code sent to email")
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and OTP are required"})
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Email verified successfully")
}

// IsAuthenticated reads the credential directly so a missing token yields a
// 401 with this endpoint's own message instead of the middleware's.
func (h *AuthHandler) IsAuthenticated(c *gin.Context) {
	tokenString := middleware.TokenFromRequest(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	userID, err := h.authService.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	email, ok := h.bindEmail(c)
	if !ok {
		return
	}
	if err := h.authService.SendResetOTP(c.Request.Context(), email); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Code sent to your email")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email, code and new password are required"})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Password has been reset successfully")
}

func (h *AuthHandler) bindEmail(c *gin.Context) (string, bool) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return "", false
	}
	return req.Email, true
}

// Session cookie policy: strict same-site in development, cross-site only
// when transport is secured (production behind HTTPS).
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	if h.config.IsProduction() {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(middleware.SessionCookieName, token,
		int(service.SessionTokenDuration.Seconds()), "/", "", h.config.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	if h.config.IsProduction() {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.config.CookieSecure, true)
}
