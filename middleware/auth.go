// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"consultly/models"
	"consultly/utils"
)

const identityContextKey = "identity"

// CookieNameForRole returns the role-scoped cookie carrying that role's
// token. The three namespaces are independent: a request never carries more
// than one simultaneously-valid role.
func CookieNameForRole(role models.Role) string {
	switch role {
	case models.RoleSeeker:
		return "seeker-token"
	case models.RoleAdvisor:
		return "advisor-token"
	case models.RoleOperator:
		return "operator-token"
	}
	return ""
}

// AuthRequired resolves the request to an identity holding exactly the given
// role.
func AuthRequired(role models.Role) gin.HandlerFunc {
	return AuthAny(role)
}

// AuthAny resolves the request to an identity holding one of the given
// roles. It rejects with Unauthorized when no valid token is present and
// with Forbidden when the token's role is not among those accepted.
func AuthAny(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, roles)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Code:    utils.CodeUnauthorized,
				Message: "missing or empty authentication token",
			})
			return
		}

		identity, ok := resolveIdentity(c, tokenString)
		if !ok {
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Set(identityContextKey, identity)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Code:    utils.CodeForbidden,
			Message: "token role is not allowed on this endpoint",
		})
	}
}

// CurrentIdentity returns the identity resolved by the auth middleware.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	val, exists := c.Get(identityContextKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}

// tokenFromRequest checks the role-scoped cookies for the accepted roles
// first, then falls back to a bearer header.
func tokenFromRequest(c *gin.Context, roles []models.Role) string {
	for _, role := range roles {
		if token, err := c.Cookie(CookieNameForRole(role)); err == nil && token != "" {
			return token
		}
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// resolveIdentity verifies the token, consulting the Redis auth cache when
// one is wired. Cache unavailability falls back to direct verification; it
// never rejects a request.
func resolveIdentity(c *gin.Context, tokenString string) (models.Identity, bool) {
	cache := utils.AuthCacheClient
	cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)

	if cache != nil {
		if cached, err := cache.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			if identity, ok := decodeCachedIdentity(cached); ok {
				_ = cache.Expire(c.Request.Context(), cacheKey, utils.AuthCacheTTL).Err()
				return identity, true
			}
		}
	}

	identity, err := utils.ExtractIdentityFromToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
			Code:    utils.CodeUnauthorized,
			Message: "invalid or expired authentication token",
		})
		return models.Identity{}, false
	}

	if cache != nil {
		_ = cache.Set(c.Request.Context(), cacheKey, encodeCachedIdentity(identity), utils.AuthCacheTTL).Err()
	}
	return identity, true
}

func encodeCachedIdentity(identity models.Identity) string {
	return identity.SubjectID + "|" + string(identity.Role)
}

func decodeCachedIdentity(raw string) (models.Identity, bool) {
	parts := strings.SplitN(raw, "|", 2)
	if len(parts) != 2 {
		return models.Identity{}, false
	}
	identity := models.Identity{SubjectID: parts[0], Role: models.Role(parts[1])}
	if identity.SubjectID == "" || !identity.Role.Valid() {
		return models.Identity{}, false
	}
	return identity, true
}
