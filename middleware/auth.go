package middleware

import (
	"strings"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/Govind-619/ScentSphere/services"
	"github.com/Govind-619/ScentSphere/utils"
	"github.com/gin-gonic/gin"
)

// ProfileKey is the context key holding the caller's models.Profile
const ProfileKey = "profile"

// AuthMiddleware verifies the identity provider's bearer token and loads the
// caller's profile, creating it on first sight
func AuthMiddleware(secret string, profiles *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			utils.LogDebug("Missing or malformed Authorization header on %s", c.Request.URL.Path)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}

		profile, err := profiles.EnsureProfile(c.Request.Context(), claims.UserID, claims.Email)
		if err != nil {
			utils.RespondError(c, err)
			c.Abort()
			return
		}
		if profile.IsBanned {
			utils.LogError("Banned user attempted access: %d", profile.ID)
			utils.Forbidden(c, utils.ErrUserBanned)
			c.Abort()
			return
		}

		c.Set(ProfileKey, *profile)
		c.Next()
	}
}

// AdminMiddleware allows only profiles with the admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := CurrentProfile(c)
		if !ok {
			utils.Unauthorized(c, utils.ErrUnauthorized)
			c.Abort()
			return
		}
		if !profile.IsAdmin() {
			utils.LogError("Non-admin user attempted admin access: %d", profile.ID)
			utils.Forbidden(c, utils.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentProfile returns the authenticated profile of the request
func CurrentProfile(c *gin.Context) (models.Profile, bool) {
	v, exists := c.Get(ProfileKey)
	if !exists {
		return models.Profile{}, false
	}
	profile, ok := v.(models.Profile)
	return profile, ok
}
