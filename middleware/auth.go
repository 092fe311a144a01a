package middleware

import (
	"net/http"
	"strings"

	"github.com/agrivista/api-go/models"
	"github.com/agrivista/api-go/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenFromRequest returns the token from the named cookie or, failing that,
// from an "Authorization: Bearer" header.
func TokenFromRequest(c *gin.Context, cookie string) string {
	if token, err := c.Cookie(cookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
		return ""
	}
	return bearerToken[1]
}

func authenticate(c *gin.Context, issuer *utils.TokenIssuer, role, cookie string) (*utils.UserClaims, bool) {
	token := TokenFromRequest(c, cookie)
	if token == "" {
		return nil, false
	}
	claims, err := issuer.Parse(token)
	if err != nil || claims.Role != role {
		return nil, false
	}
	return claims, true
}

// AuthMiddleware rejects requests without a valid token for the given role.
func AuthMiddleware(issuer *utils.TokenIssuer, role, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, issuer, role, cookie)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		utils.SetUser(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's claims when a valid token is present and
// lets anonymous requests through.
func OptionalAuth(issuer *utils.TokenIssuer, role, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := authenticate(c, issuer, role, cookie); ok {
			utils.SetUser(c, claims)
		}
		c.Next()
	}
}

// UserAuth guards end-user routes with the "token" cookie.
func UserAuth(issuer *utils.TokenIssuer) gin.HandlerFunc {
	return AuthMiddleware(issuer, utils.RoleUser, utils.UserCookie)
}

// AdminAuth guards admin routes with the "admin_token" cookie and also checks
// that the admin row still exists.
func AdminAuth(issuer *utils.TokenIssuer, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, issuer, utils.RoleAdmin, utils.AdminCookie)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var admin models.Admin
		if err := db.WithContext(c.Request.Context()).First(&admin, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		utils.SetUser(c, claims)
		c.Set("admin", &admin)
		c.Next()
	}
}

func CurrentAdmin(c *gin.Context) *models.Admin {
	v, ok := c.Get("admin")
	if !ok {
		return nil
	}
	admin, _ := v.(*models.Admin)
	return admin
}

// RequirePermission must run after AdminAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil || !admin.Can(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
