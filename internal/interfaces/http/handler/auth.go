package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawnshop/backend/internal/infrastructure/auth"
)

// AuthHandler handles operator login
type AuthHandler struct {
	BaseHandler
	verifier   *auth.CredentialVerifier
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(verifier *auth.CredentialVerifier, jwtService *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		verifier:   verifier,
		jwtService: jwtService,
		logger:     logger,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the operator credentials and issues a token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if !h.verifier.Verify(req.Username, req.Password) {
		h.logger.Warn("login failed",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()))
		h.Unauthorized(c, "Invalid username or password")
		return
	}

	token, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.logger.Info("login succeeded", zap.String("username", req.Username))
	h.Success(c, token)
}
