package api

import (
	"net/http" // HTTP status codes
	"time"     // Clock and rate limit window

	"crowdfunding/internal/events"     // Domain events
	"crowdfunding/internal/metrics"    // Prometheus collectors
	"crowdfunding/internal/middleware" // Custom middleware
	"crowdfunding/internal/store"      // Persistence layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Deps are the collaborators the HTTP layer is built from
type Deps struct {
	Store          *store.Store     // Persistence layer
	Tokens         TokenIssuer      // JWT settings
	Events         events.Publisher // Domain event sink, nil disables events
	Redis          *redis.Client    // Rate limiter backend, nil falls back to an in-process limiter
	AuthRateLimit  int              // Auth requests per client per window, 0 disables rate limiting
	AuthRateWindow time.Duration    // Rate limit window
	Now            func() time.Time // Clock, defaults to time.Now
}

// NewRouter wires every route onto a new gin engine
func NewRouter(d Deps) *gin.Engine {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	st := d.Store

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(), middleware.LoggerMiddleware(), middleware.MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Resolves the bearer token (if any) for every resource route
	identity := middleware.JWTIdentityMiddleware(d.Tokens.Secret, st)

	// Auth routes, rate limited per client in Redis or, without Redis, in process
	var limiter gin.HandlerFunc
	switch {
	case d.AuthRateLimit <= 0 || d.AuthRateWindow <= 0:
		// disabled
	case d.Redis != nil:
		limiter = middleware.RateLimitMiddleware(d.Redis, d.AuthRateLimit, d.AuthRateWindow)
	default:
		limiter = middleware.NewLocalRateLimiter(d.AuthRateLimit, d.AuthRateWindow).Middleware()
	}
	limit := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{limiter, h}
	}
	authGroup := r.Group("/auth")
	authGroup.POST("/users", limit(RegisterHandler(st))...)                // Registration endpoint
	authGroup.POST("/jwt/create", limit(LoginHandler(st, d.Tokens))...)    // Login endpoint
	authGroup.POST("/jwt/refresh", limit(RefreshHandler(st, d.Tokens))...) // Token refresh endpoint
	authGroup.POST("/jwt/verify", VerifyHandler(d.Tokens))                 // Token verification endpoint
	authGroup.GET("/users/me", identity, MeHandler(st, d.Now))             // Profile endpoint
	authGroup.DELETE("/users/me", identity, DeleteMeHandler(st, d.Events)) // Account deletion endpoint

	// Campaign routes: reads are public, writes need the owner
	campaignGroup := r.Group("/campaigns", identity)
	campaignGroup.GET("", ListCampaignsHandler(st))
	campaignGroup.POST("", CreateCampaignHandler(st, d.Events, d.Now))
	campaignGroup.GET("/mine", MyCampaignsHandler(st))
	campaignGroup.GET("/:id", GetCampaignHandler(st))
	campaignGroup.PUT("/:id", UpdateCampaignHandler(st, d.Events, d.Now, false))
	campaignGroup.PATCH("/:id", UpdateCampaignHandler(st, d.Events, d.Now, true))
	campaignGroup.DELETE("/:id", DeleteCampaignHandler(st, d.Events))
	campaignGroup.GET("/:id/donations", CampaignDonationsHandler(st))

	// Donation routes: every operation needs an authenticated caller
	donationGroup := r.Group("/donations", identity)
	donationGroup.GET("", ListDonationsHandler(st))
	donationGroup.POST("", CreateDonationHandler(st, d.Events))
	donationGroup.GET("/:id", GetDonationHandler(st))
	donationGroup.PUT("/:id", UpdateDonationHandler(st, d.Events, false))
	donationGroup.PATCH("/:id", UpdateDonationHandler(st, d.Events, true))
	donationGroup.DELETE("/:id", DeleteDonationHandler(st, d.Events))

	// Admin routes (read-only, staff only)
	adminGroup := r.Group("/admin", identity, middleware.StaffOnlyMiddleware(st))
	adminGroup.GET("/users", ListUsersHandler(st)) // List users endpoint

	return r
}
