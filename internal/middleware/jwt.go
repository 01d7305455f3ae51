package middleware

import (
	"context"  // Request context for user lookups
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"crowdfunding/internal/domain" // Identity and error types
	"crowdfunding/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the middleware
const (
	CtxIdentity  = "identity"
	CtxUserID    = "userID"
	CtxRequestID = "request_id"
)

// UserLookup resolves a token's subject to a stored user
type UserLookup interface {
	UserByID(ctx context.Context, id uint) (*domain.User, error)
}

// JWTIdentityMiddleware resolves the Authorization header to a domain.Identity.
// Requests without the header continue as anonymous; a present but invalid
// token, or one whose user no longer exists, is rejected with 401.
func JWTIdentityMiddleware(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" {
			c.Set(CtxIdentity, domain.Anonymous()) // No credentials: anonymous caller
			c.Next()
			return
		}
		// Check if the Authorization header is properly formatted
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")              // Extract the token string
		claims, err := utils.ParseJWT(tokenStr, secret, utils.AccessToken) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// The token must still belong to an existing account
		if _, err := users.UserByID(c.Request.Context(), claims.UserID); err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
			return
		}
		c.Set(CtxIdentity, domain.AuthenticatedAs(claims.UserID)) // Store identity in context
		c.Set(CtxUserID, claims.UserID)                           // Store userID in context
		c.Next()                                                  // Proceed to the next handler
	}
}

// IdentityFrom returns the identity stored by JWTIdentityMiddleware, anonymous if absent
func IdentityFrom(c *gin.Context) domain.Identity {
	if v, ok := c.Get(CtxIdentity); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Anonymous()
}
