package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oikos/disc-backend/internal/middleware"
	"github.com/oikos/disc-backend/internal/model"
	"github.com/oikos/disc-backend/internal/response"
	"github.com/oikos/disc-backend/internal/service"
	"github.com/oikos/disc-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	flowService *service.FlowService
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, flowService *service.FlowService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		flowService: flowService,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Starts a session for name/email and returns its token with the first screen.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if errs := validator.Bind(c, &req); errs != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, errs)
		return
	}

	user := req.Normalize()
	role := h.authService.RoleFor(user.Email)

	token, err := h.authService.IssueToken(user, role)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to issue token")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	view, err := h.flowService.Login(c.Request.Context(), token.SessionID, user, role)
	if err != nil {
		failFlow(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
		"user":       user,
		"role":       role,
		"view":       view,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.flowService.Logout(c.Request.Context(), claims.SessionID())
	if err != nil {
		failFlow(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"view": view})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the identity carried by the session token.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":       claims.User(),
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt,
	})
}
