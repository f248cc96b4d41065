package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prizedraw/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the login response with the admin JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	jwt          *JWTService
	passwordHash string
	logger       *zap.Logger
}

// NewHandler creates an auth handler. passwordHash is the bcrypt hash of
// the admin password from the environment.
func NewHandler(jwt *JWTService, passwordHash string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{jwt: jwt, passwordHash: passwordHash, logger: logger}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if h.passwordHash == "" {
		h.logger.Warn("admin login attempted with no ADMIN_PASSWORD_HASH configured")
		response.Unauthorized(c, "admin login disabled")
		return
	}
	if !VerifyPassword(req.Password, h.passwordHash) {
		h.logger.Warn("admin login rejected", zap.String("client_ip", c.ClientIP()))
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate()
	if err != nil {
		h.logger.Error("generate admin token", zap.Error(err))
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, TokenResponse{Token: token})
}
