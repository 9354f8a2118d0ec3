// internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by Authenticate.
const (
	KeyUserID = "userId"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// Abort ends the request with the standard failure envelope.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Authenticate validates the bearer token and puts the caller's claims into the context.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			Abort(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			Abort(c, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := tokens.ParseJWT(tokenString)
		if err != nil {
			Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)

		c.Next()
	}
}

// Authorize lets the request through only when the caller has one of the given roles.
// It must run after Authenticate.
func Authorize(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(KeyRole)
		if userRole == "" {
			Abort(c, http.StatusInternalServerError, "User role not found in context")
			return
		}

		for _, role := range allowedRoles {
			if string(role) == userRole {
				c.Next()
				return
			}
		}

		Abort(c, http.StatusForbidden, "You do not have permission to access this resource")
	}
}

// CallerID returns the authenticated account id.
func CallerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(KeyUserID))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func CallerRole(c *gin.Context) models.Role {
	return models.Role(c.GetString(KeyRole))
}
