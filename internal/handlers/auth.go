package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/services"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/metrics"
	"github.com/ideaforge/ideaforge/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves credential verification and token issuance.
type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *services.UserService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Login exchanges email and password for a signed access token.
func (h *AuthHandler) Login(c *gin.Context) {
	payload, err := bindAndValidate[loginRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, apperrors.Wrap(err, "failed to issue access token"))
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
