package api

import (
	"net/http" // HTTP status codes
	"strings"  // Search term trimming
	"time"     // Clock

	"crowdfunding/internal/domain"     // Domain models and rules
	"crowdfunding/internal/events"     // Domain events
	"crowdfunding/internal/metrics"    // Prometheus collectors
	"crowdfunding/internal/middleware" // Identity from context
	"crowdfunding/internal/store"      // Persistence layer

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// CampaignRequest is the create/update payload; nil fields are absent from the body
type CampaignRequest struct {
	Title        *string          `json:"title"`         // Campaign title
	Description  *string          `json:"description"`   // Campaign description
	TargetAmount *decimal.Decimal `json:"target_amount"` // Fundraising target
	StartDate    *string          `json:"start_date"`    // YYYY-MM-DD, defaults to today on create
	EndDate      *string          `json:"end_date"`      // YYYY-MM-DD
}

// apply copies the present fields onto c. Unless partial, every required field must be present.
// It reports whether the start date was set by the request.
func (r *CampaignRequest) apply(c *domain.Campaign, partial bool) (bool, error) {
	if !partial {
		switch {
		case r.Title == nil:
			return false, required("title")
		case r.Description == nil:
			return false, required("description")
		case r.TargetAmount == nil:
			return false, required("target_amount")
		case r.EndDate == nil:
			return false, required("end_date")
		}
	}
	if r.Title != nil {
		c.Title = *r.Title
	}
	if r.Description != nil {
		c.Description = *r.Description
	}
	if r.TargetAmount != nil {
		c.TargetAmount = *r.TargetAmount
	}
	startSet := false
	if r.StartDate != nil {
		d, err := domain.ParseDate(*r.StartDate)
		if err != nil {
			return false, dateFormatError("start_date")
		}
		c.StartDate = d
		startSet = true
	}
	if r.EndDate != nil {
		d, err := domain.ParseDate(*r.EndDate)
		if err != nil {
			return false, dateFormatError("end_date")
		}
		c.EndDate = d
	}
	return startSet, nil
}

func dateFormatError(field string) error {
	return &domain.ValidationError{Field: field, Message: "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
}

// ListCampaignsHandler lists campaigns, optionally filtered by owner and a search term
func ListCampaignsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.CheckAccess(middleware.IdentityFrom(c), domain.ResourceCampaign, domain.OpList); err != nil {
			respondError(c, err)
			return
		}
		owner, err := optionalIDQuery(c, "owner") // Filter by owner
		if err != nil {
			respondError(c, err)
			return
		}
		campaigns, err := st.ListCampaigns(c.Request.Context(), store.CampaignFilter{
			OwnerID: owner,
			Search:  strings.TrimSpace(c.Query("search")), // Search title and description
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCampaignResponses(campaigns))
	}
}

// MyCampaignsHandler lists the campaigns owned by the caller
func MyCampaignsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.RequireAuthenticated(id); err != nil {
			respondError(c, err)
			return
		}
		campaigns, err := st.ListCampaigns(c.Request.Context(), store.CampaignFilter{OwnerID: &id.UserID})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCampaignResponses(campaigns))
	}
}

// GetCampaignHandler returns one campaign with its donations and derived metrics
func GetCampaignHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.CheckAccess(middleware.IdentityFrom(c), domain.ResourceCampaign, domain.OpRetrieve); err != nil {
			respondError(c, err)
			return
		}
		campaignID, ok := idParam(c, "id", "campaign")
		if !ok {
			return
		}
		campaign, err := st.Campaign(c.Request.Context(), campaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newCampaignResponse(*campaign))
	}
}

// CampaignDonationsHandler lists the donations of one campaign
func CampaignDonationsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.CheckAccess(middleware.IdentityFrom(c), domain.ResourceCampaign, domain.OpRetrieve); err != nil {
			respondError(c, err)
			return
		}
		campaignID, ok := idParam(c, "id", "campaign")
		if !ok {
			return
		}
		campaign, err := st.Campaign(c.Request.Context(), campaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]DonationResponse, len(campaign.Donations))
		for i, d := range campaign.Donations {
			resp[i] = newDonationResponse(d, campaign.Title)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// CreateCampaignHandler creates a campaign owned by the caller
func CreateCampaignHandler(st *store.Store, pub events.Publisher, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceCampaign, domain.OpCreate); err != nil {
			respondError(c, err)
			return
		}
		var req CampaignRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		today := domain.Day(now())
		// Owner is always the caller; start date defaults to today
		campaign := domain.Campaign{OwnerID: id.UserID, StartDate: today}
		if _, err := req.apply(&campaign, false); err != nil {
			respondError(c, err)
			return
		}
		if err := domain.ValidateCampaign(campaign, today, true); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		if err := st.CreateCampaign(ctx, &campaign); err != nil {
			logrus.WithFields(logrus.Fields{
				"owner_id": id.UserID,   // Owner ID
				"error":    err.Error(), // Error message
			}).Error("Failed to create campaign")
			respondError(c, err)
			return
		}
		created, err := st.Campaign(ctx, campaign.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner_id":    id.UserID,                            // Owner ID
			"campaign_id": campaign.ID,                          // Campaign ID
			"target":      campaign.TargetAmount.StringFixed(2), // Target amount
		}).Info("Campaign created")
		metrics.RecordCampaign("create")
		events.Emit(ctx, pub, events.CampaignCreated, gin.H{"campaign_id": campaign.ID, "owner_id": id.UserID})
		c.JSON(http.StatusCreated, newCampaignResponse(*created))
	}
}

// UpdateCampaignHandler replaces (PUT) or patches (PATCH) a campaign owned by the caller
func UpdateCampaignHandler(st *store.Store, pub events.Publisher, now func() time.Time, partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceCampaign, domain.OpUpdate); err != nil {
			respondError(c, err)
			return
		}
		campaignID, ok := idParam(c, "id", "campaign")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		campaign, err := st.Campaign(ctx, campaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := domain.Authorize(id, domain.ResourceCampaign, domain.OpUpdate, &campaign.OwnerID); err != nil {
			respondError(c, err)
			return
		}
		var req CampaignRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		updated := *campaign // Work on a copy; the stored row changes only after validation
		startSet, err := req.apply(&updated, partial)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := domain.ValidateCampaign(updated, now(), startSet); err != nil {
			respondError(c, err)
			return
		}
		if err := st.UpdateCampaign(ctx, &updated); err != nil {
			respondError(c, err)
			return
		}
		fresh, err := st.Campaign(ctx, campaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner_id":    id.UserID,  // Owner ID
			"campaign_id": campaignID, // Campaign ID
			"partial":     partial,    // PATCH or PUT
		}).Info("Campaign updated")
		metrics.RecordCampaign("update")
		events.Emit(ctx, pub, events.CampaignUpdated, gin.H{"campaign_id": campaignID})
		c.JSON(http.StatusOK, newCampaignResponse(*fresh))
	}
}

// DeleteCampaignHandler deletes a campaign owned by the caller, together with its donations
func DeleteCampaignHandler(st *store.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceCampaign, domain.OpDelete); err != nil {
			respondError(c, err)
			return
		}
		campaignID, ok := idParam(c, "id", "campaign")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		campaign, err := st.Campaign(ctx, campaignID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := domain.Authorize(id, domain.ResourceCampaign, domain.OpDelete, &campaign.OwnerID); err != nil {
			respondError(c, err)
			return
		}
		if err := st.DeleteCampaign(ctx, campaignID); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"owner_id":    id.UserID,               // Owner ID
			"campaign_id": campaignID,              // Campaign ID
			"donations":   len(campaign.Donations), // Donations removed with it
		}).Info("Campaign deleted")
		metrics.RecordCampaign("delete")
		events.Emit(ctx, pub, events.CampaignDeleted, gin.H{"campaign_id": campaignID})
		c.Status(http.StatusNoContent)
	}
}
