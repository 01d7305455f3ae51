package api

import (
	"net/http" // HTTP status codes

	"crowdfunding/internal/domain"     // Domain models and rules
	"crowdfunding/internal/events"     // Domain events
	"crowdfunding/internal/metrics"    // Prometheus collectors
	"crowdfunding/internal/middleware" // Identity from context
	"crowdfunding/internal/store"      // Persistence layer

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// DonationRequest is the create/update payload; nil fields are absent from the body
type DonationRequest struct {
	Campaign *uint            `json:"campaign"` // Target campaign ID
	Amount   *decimal.Decimal `json:"amount"`   // Donated amount
	Message  *string          `json:"message"`  // Optional message
}

// apply copies the present fields onto d. Unless partial, campaign and amount must be present.
func (r *DonationRequest) apply(d *domain.Donation, partial bool) error {
	if !partial {
		switch {
		case r.Campaign == nil:
			return required("campaign")
		case r.Amount == nil:
			return required("amount")
		}
	}
	if r.Campaign != nil {
		d.CampaignID = *r.Campaign
	}
	if r.Amount != nil {
		d.Amount = *r.Amount
	}
	if r.Message != nil {
		d.Message = r.Message
	}
	return nil
}

// ListDonationsHandler lists donations, optionally filtered by campaign and donor
func ListDonationsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.CheckAccess(middleware.IdentityFrom(c), domain.ResourceDonation, domain.OpList); err != nil {
			respondError(c, err)
			return
		}
		campaignID, err := optionalIDQuery(c, "campaign") // Filter by campaign
		if err != nil {
			respondError(c, err)
			return
		}
		donorID, err := optionalIDQuery(c, "donor") // Filter by donor
		if err != nil {
			respondError(c, err)
			return
		}
		donations, err := st.ListDonations(c.Request.Context(), store.DonationFilter{CampaignID: campaignID, DonorID: donorID})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newDonationResponses(donations))
	}
}

// GetDonationHandler returns one donation
func GetDonationHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := domain.CheckAccess(middleware.IdentityFrom(c), domain.ResourceDonation, domain.OpRetrieve); err != nil {
			respondError(c, err)
			return
		}
		donationID, ok := idParam(c, "id", "donation")
		if !ok {
			return
		}
		donation, err := st.Donation(c.Request.Context(), donationID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newDonationResponse(*donation, donation.Campaign.Title))
	}
}

// CreateDonationHandler records a donation attributed to the caller
func CreateDonationHandler(st *store.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceDonation, domain.OpCreate); err != nil {
			respondError(c, err)
			return
		}
		var req DonationRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		donorID := id.UserID
		donation := domain.Donation{DonorID: &donorID} // Donor is always the caller
		if err := req.apply(&donation, false); err != nil {
			respondError(c, err)
			return
		}
		if err := domain.ValidateDonationAmount(donation.Amount); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		if err := st.CreateDonation(ctx, &donation); err != nil {
			respondError(c, err)
			return
		}
		created, err := st.Donation(ctx, donation.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"donor_id":    donorID,                        // Donor user ID
			"campaign_id": donation.CampaignID,            // Campaign ID
			"amount":      donation.Amount.StringFixed(2), // Donated amount
		}).Info("Donation created")
		metrics.RecordDonation(donation.Amount)
		events.Emit(ctx, pub, events.DonationCreated, gin.H{
			"donation_id": donation.ID,
			"campaign_id": donation.CampaignID,
			"amount":      money(donation.Amount),
		})
		c.JSON(http.StatusCreated, newDonationResponse(*created, created.Campaign.Title))
	}
}

// UpdateDonationHandler replaces (PUT) or patches (PATCH) a donation made by the caller
func UpdateDonationHandler(st *store.Store, pub events.Publisher, partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceDonation, domain.OpUpdate); err != nil {
			respondError(c, err)
			return
		}
		donationID, ok := idParam(c, "id", "donation")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		donation, err := st.Donation(ctx, donationID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := domain.Authorize(id, domain.ResourceDonation, domain.OpUpdate, donation.DonorID); err != nil {
			respondError(c, err)
			return
		}
		var req DonationRequest // Bind JSON request to struct
		if !bindJSON(c, &req) {
			return
		}
		updated := *donation
		if err := req.apply(&updated, partial); err != nil {
			respondError(c, err)
			return
		}
		if err := domain.ValidateDonationAmount(updated.Amount); err != nil {
			respondError(c, err)
			return
		}
		if err := st.UpdateDonation(ctx, &updated); err != nil {
			respondError(c, err)
			return
		}
		fresh, err := st.Donation(ctx, donationID)
		if err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"donor_id":    id.UserID,        // Donor user ID
			"donation_id": donationID,       // Donation ID
			"campaign_id": fresh.CampaignID, // Campaign ID after the update
		}).Info("Donation updated")
		events.Emit(ctx, pub, events.DonationUpdated, gin.H{"donation_id": donationID, "campaign_id": fresh.CampaignID})
		c.JSON(http.StatusOK, newDonationResponse(*fresh, fresh.Campaign.Title))
	}
}

// DeleteDonationHandler deletes a donation made by the caller
func DeleteDonationHandler(st *store.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.IdentityFrom(c)
		if err := domain.CheckAccess(id, domain.ResourceDonation, domain.OpDelete); err != nil {
			respondError(c, err)
			return
		}
		donationID, ok := idParam(c, "id", "donation")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		donation, err := st.Donation(ctx, donationID)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := domain.Authorize(id, domain.ResourceDonation, domain.OpDelete, donation.DonorID); err != nil {
			respondError(c, err)
			return
		}
		if err := st.DeleteDonation(ctx, donationID); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"donor_id":    id.UserID,           // Donor user ID
			"donation_id": donationID,          // Donation ID
			"campaign_id": donation.CampaignID, // Campaign ID
		}).Info("Donation deleted")
		events.Emit(ctx, pub, events.DonationDeleted, gin.H{"donation_id": donationID, "campaign_id": donation.CampaignID})
		c.Status(http.StatusNoContent)
	}
}
