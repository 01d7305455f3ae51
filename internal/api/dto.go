package api

import (
	"time" // Timestamps

	"crowdfunding/internal/domain" // Domain models and aggregation

	"github.com/shopspring/decimal" // Exact money amounts
)

// money renders an amount with two fractional digits
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// DonationResponse is the donation payload
type DonationResponse struct {
	ID            uint      `json:"id"`             // Donation ID
	Campaign      uint      `json:"campaign"`       // Campaign ID
	Amount        string    `json:"amount"`         // Donated amount
	DonationDate  time.Time `json:"donation_date"`  // Creation timestamp
	Message       *string   `json:"message"`        // Optional message
	Donor         string    `json:"donor"`          // Donor display form or "Anonymous"
	CampaignTitle string    `json:"campaign_title"` // Title of the campaign
}

func newDonationResponse(d domain.Donation, campaignTitle string) DonationResponse {
	return DonationResponse{
		ID:            d.ID,
		Campaign:      d.CampaignID,
		Amount:        money(d.Amount),
		DonationDate:  d.DonationDate,
		Message:       d.Message,
		Donor:         domain.DonorDisplay(d.Donor),
		CampaignTitle: campaignTitle,
	}
}

func newDonationResponses(donations []domain.Donation) []DonationResponse {
	resp := make([]DonationResponse, len(donations))
	for i, d := range donations {
		resp[i] = newDonationResponse(d, d.Campaign.Title)
	}
	return resp
}

// CampaignResponse is the campaign payload with its derived metrics
type CampaignResponse struct {
	ID                 uint               `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	TargetAmount       string             `json:"target_amount"`
	StartDate          string             `json:"start_date"`
	EndDate            string             `json:"end_date"`
	CreatedAt          time.Time          `json:"created_at"`
	Owner              string             `json:"owner"`
	Donations          []DonationResponse `json:"donations"`
	TotalDonations     string             `json:"total_donations"`
	DonationCount      int                `json:"donation_count"`
	ProgressPercentage int64              `json:"progress_percentage"`
}

func newCampaignResponse(c domain.Campaign) CampaignResponse {
	summary := domain.Summarize(c) // Derived fresh from the loaded donations
	donations := make([]DonationResponse, len(c.Donations))
	for i, d := range c.Donations {
		donations[i] = newDonationResponse(d, c.Title)
	}
	return CampaignResponse{
		ID:                 c.ID,
		Title:              c.Title,
		Description:        c.Description,
		TargetAmount:       money(c.TargetAmount),
		StartDate:          domain.FormatDate(c.StartDate),
		EndDate:            domain.FormatDate(c.EndDate),
		CreatedAt:          c.CreatedAt,
		Owner:              c.Owner.Display(),
		Donations:          donations,
		TotalDonations:     money(summary.Total),
		DonationCount:      summary.Count,
		ProgressPercentage: summary.Progress,
	}
}

func newCampaignResponses(campaigns []domain.Campaign) []CampaignResponse {
	resp := make([]CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		resp[i] = newCampaignResponse(c)
	}
	return resp
}

// UserResponse is the public user payload
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Phone: u.Phone}
}
