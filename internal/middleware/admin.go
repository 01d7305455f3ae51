package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// StaffOnlyMiddleware checks the user's staff flags from the database on each request.
// It guards read-only admin listings; campaign and donation rules never consult these flags.
func StaffOnlyMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c) // Get identity from context
		// Check if the caller is authenticated
		if !id.Authenticated {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		user, err := users.UserByID(c.Request.Context(), id.UserID) // Fetch user from database
		if err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		// Check if user is staff or superuser
		if !user.IsStaff && !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}
		// If staff, proceed to the next handler
		c.Next()
	}
}
