package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps

	"crowdfunding/internal/domain" // Domain models and aggregation
	"crowdfunding/internal/store"  // Persistence layer

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserAdminResponse represents the user data returned to staff
type UserAdminResponse struct {
	ID                 uint      `json:"id"`                   // User ID
	Username           string    `json:"username"`             // Username
	Email              string    `json:"email"`                // Email address
	Phone              string    `json:"phone"`                // Phone number
	IsStaff            bool      `json:"is_staff"`             // Staff flag
	IsSuperuser        bool      `json:"is_superuser"`         // Superuser flag
	DateJoined         time.Time `json:"date_joined"`          // Registration timestamp
	TotalDonationsMade string    `json:"total_donations_made"` // Sum of the user's donations
}

// pagination reads page and page_size from the query, defaulting to 1 and 20
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page number
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// ListUsersHandler returns all users with their donation totals
func ListUsersHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		ctx := c.Request.Context()
		users, total, err := st.ListUsers(ctx, page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		ids := make([]uint, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		// One query for every listed user's donations, summed per user below
		donations, err := st.DonationsByDonors(ctx, ids)
		if err != nil {
			respondError(c, err)
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		// Map users to response format
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:                 u.ID,
				Username:           u.Username,
				Email:              u.Email,
				Phone:              u.Phone,
				IsStaff:            u.IsStaff,
				IsSuperuser:        u.IsSuperuser,
				DateJoined:         u.DateJoined,
				TotalDonationsMade: money(domain.UserTotalDonated(u.ID, donations)),
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
		})
	}
}
