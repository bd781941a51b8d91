// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/user"
	"github.com/BeingRelentless/QKart-Shopping/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
	logger      *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.userService.Register(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered successfully",
	})
}

// Login handles user login. The guest cart is merged into the account's
// cart; a failed merge is reported but does not fail the login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.userService.Login(c.Request.Context(), middleware.GetVisitorStore(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data := gin.H{
		"user": user.ProfileOf(result.Session),
		"sync": result.Sync,
	}
	if result.SyncErr != nil {
		data["sync_error"] = "Some items in your cart could not be saved to your account"
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Logged in successfully!",
		"data":    data,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context(), middleware.GetVisitorStore(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the signed-in visitor
func (h *AuthHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    user.ProfileOf(middleware.GetSession(c)),
	})
}
