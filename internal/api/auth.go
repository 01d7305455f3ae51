package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetimes and clock

	"crowdfunding/internal/domain"     // Domain models and rules
	"crowdfunding/internal/events"     // Domain events
	"crowdfunding/internal/middleware" // Identity from context
	"crowdfunding/internal/store"      // Persistence layer
	"crowdfunding/internal/utils"      // JWT and password helpers

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Request and Response structs
type RegisterRequest struct {
	Username string `json:"username"` // Unique username
	Email    string `json:"email"`    // Unique email address
	Phone    string `json:"phone"`    // Unique Egyptian mobile number
	Password string `json:"password"` // Plaintext password, hashed before storage
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for authentication
type AuthResponse struct {
	Access  string       `json:"access"`  // Access token
	Refresh string       `json:"refresh"` // Refresh token
	User    UserResponse `json:"user"`    // Authenticated user
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// VerifyRequest carries any token to check
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// DeleteAccountRequest confirms account deletion
type DeleteAccountRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// TokenIssuer signs access and refresh tokens
type TokenIssuer struct {
	Secret     string        // HMAC secret
	AccessTTL  time.Duration // Access token lifetime
	RefreshTTL time.Duration // Refresh token lifetime
}

// RegisterHandler creates a user account
func RegisterHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = domain.NormalizeEmail(req.Email)
		req.Phone = strings.TrimSpace(req.Phone)
		// Validate required fields, phone pattern and password length
		if err := domain.ValidateUser(req.Username, req.Email, req.Phone, req.Password); err != nil {
			respondError(c, err)
			return
		}
		// Hash the password and create the user
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		user := domain.User{Username: req.Username, Email: req.Email, Phone: req.Phone, Password: hash}
		if err := st.CreateUser(c.Request.Context(), &user); err != nil {
			respondError(c, err) // Duplicate username, email or phone is a 409
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": newUserResponse(user)})
	}
}

// LoginHandler authenticates a user and returns an access/refresh token pair
func LoginHandler(st *store.Store, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		user, err := st.UserByUsername(c.Request.Context(), req.Username) // Fetch user from database
		if err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				respondError(c, &domain.AuthenticationError{Message: "Invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		// Compare provided password with stored hash
		if !utils.CheckPassword(user.Password, req.Password) {
			respondError(c, &domain.AuthenticationError{Message: "Invalid credentials"})
			return
		}
		access, err := utils.GenerateJWT(user.ID, tokens.Secret, utils.AccessToken, tokens.AccessTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		refresh, err := utils.GenerateJWT(user.ID, tokens.Secret, utils.RefreshToken, tokens.RefreshTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the tokens in the response
		c.JSON(http.StatusOK, AuthResponse{Access: access, Refresh: refresh, User: newUserResponse(*user)})
	}
}

// RefreshHandler exchanges a refresh token for a new access token
func RefreshHandler(st *store.Store, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if !bindJSON(c, &req) {
			return
		}
		claims, err := utils.ParseJWT(req.Refresh, tokens.Secret, utils.RefreshToken)
		if err != nil {
			respondError(c, &domain.AuthenticationError{Message: "Token is invalid or expired"})
			return
		}
		// The account may have been deleted since the token was issued
		if _, err := st.UserByID(c.Request.Context(), claims.UserID); err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				respondError(c, &domain.AuthenticationError{Message: "User not found"})
				return
			}
			respondError(c, err)
			return
		}
		access, err := utils.GenerateJWT(claims.UserID, tokens.Secret, utils.AccessToken, tokens.AccessTTL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// VerifyHandler reports whether an access or refresh token is valid
func VerifyHandler(tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest
		if !bindJSON(c, &req) {
			return
		}
		_, accessErr := utils.ParseJWT(req.Token, tokens.Secret, utils.AccessToken)
		_, refreshErr := utils.ParseJWT(req.Token, tokens.Secret, utils.RefreshToken)
		if accessErr != nil && refreshErr != nil {
			respondError(c, &domain.AuthenticationError{Message: "Token is invalid or expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}

// MeResponse is the caller's profile with donation and campaign aggregates
type MeResponse struct {
	UserResponse
	TotalDonationsMade string             `json:"total_donations_made"`
	ActiveCampaigns    []CampaignResponse `json:"active_campaigns"`
}

// MeHandler returns the caller's profile
func MeHandler(st *store.Store, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.RequireAuthenticated(id); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		user, err := st.UserByID(ctx, id.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		donations, err := st.DonationsByDonors(ctx, []uint{user.ID})
		if err != nil {
			respondError(c, err)
			return
		}
		owned, err := st.ListCampaigns(ctx, store.CampaignFilter{OwnerID: &user.ID})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, MeResponse{
			UserResponse:       newUserResponse(*user),
			TotalDonationsMade: money(domain.UserTotalDonated(user.ID, donations)),
			ActiveCampaigns:    newCampaignResponses(domain.ActiveCampaigns(user.ID, owned, now())),
		})
	}
}

// DeleteMeHandler deletes the caller's account after re-checking the password.
// Their donations remain as anonymous; their campaigns are removed.
func DeleteMeHandler(st *store.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.RequireAuthenticated(id); err != nil {
			respondError(c, err)
			return
		}
		var req DeleteAccountRequest
		if !bindJSON(c, &req) {
			return
		}
		ctx := c.Request.Context()
		user, err := st.UserByID(ctx, id.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !utils.CheckPassword(user.Password, req.CurrentPassword) {
			respondError(c, &domain.ValidationError{Field: "current_password", Message: "Invalid password."})
			return
		}
		if err := st.DeleteUser(ctx, user.ID); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // Deleted user ID
			"username": user.Username, // Username
		}).Info("User deleted")
		events.Emit(ctx, pub, events.UserDeleted, gin.H{"user_id": user.ID})
		c.Status(http.StatusNoContent)
	}
}
