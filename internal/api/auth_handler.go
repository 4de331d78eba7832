package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vuongle/taxmate/internal/auth"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth   *auth.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, logger: logger}
}

type credentialsRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// Register creates a new account and opens a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number và password là bắt buộc"})
		return
	}

	account, session, err := h.auth.Register(req.PhoneNumber, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account":    account,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number và password là bắt buộc"})
		return
	}

	account, session, err := h.auth.Login(req.PhoneNumber, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account":    account,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
	})
}

// Logout discards the caller's session token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(bearerToken(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "đã đăng xuất"})
}
