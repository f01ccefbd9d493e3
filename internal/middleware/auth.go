package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/models"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserRoleKey = "userRole"
)

// Auth enforces JWT authentication and resolves the caller's identity.
// The user row is loaded on every request so role changes take effect
// immediately rather than at token expiry.
func Auth(jwt *iauth.JWTService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateAccessToken(token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, apperrors.ErrInternalServer.WithInternal(err))
				c.Abort()
				return
			}
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserRoleKey, string(user.Role))

		c.Next()
	}
}

// RequireRole allows the request through only when the caller holds one of
// the supplied roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := models.Role(c.GetString(CtxUserRoleKey))
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperrors.ErrForbidden)
		c.Abort()
	}
}
