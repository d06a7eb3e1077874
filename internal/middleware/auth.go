package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/well-broomed/cleaning-api/internal/constants"
	"github.com/well-broomed/cleaning-api/internal/database"
	apierrors "github.com/well-broomed/cleaning-api/internal/errors"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/services"
	"gorm.io/gorm"
)

// RequireAuth verifies the Authorization bearer token and stores the verified
// claims on the request context. Requests without a valid token are rejected.
func RequireAuth(verifier services.IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		info, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyClaims, info)
		c.Next()
	}
}

// RequireUser resolves the verified claims to a provisioned user row and
// stores its id and role. Must run after RequireAuth; requests from identities
// that never completed login are rejected.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := GetTokenInfo(c)
		if info == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		err := database.GetDB().Where("email = ?", info.Email).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "user is not registered")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Next()
	}
}

// RequireManager rejects requests from non-manager users. Must run after
// RequireUser.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != models.RoleManager {
			apierrors.Forbidden(c, "not a manager")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetTokenInfo returns the verified claims set by RequireAuth, or nil.
func GetTokenInfo(c *gin.Context) *services.TokenInfo {
	value, exists := c.Get(constants.ContextKeyClaims)
	if !exists {
		return nil
	}
	info, ok := value.(*services.TokenInfo)
	if !ok {
		return nil
	}
	return info
}

// GetUserID returns the authenticated user's id set by RequireUser.
func GetUserID(c *gin.Context) uint64 {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0
	}
	id, ok := value.(uint64)
	if !ok {
		return 0
	}
	return id
}

// GetUserRole returns the authenticated user's role set by RequireUser.
func GetUserRole(c *gin.Context) models.Role {
	value, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return ""
	}
	role, ok := value.(models.Role)
	if !ok {
		return ""
	}
	return role
}
