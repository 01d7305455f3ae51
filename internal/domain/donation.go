package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation Model
type Donation struct {
	ID           uint            `gorm:"primaryKey"`                                     // Primary key
	CampaignID   uint            `gorm:"not null;index"`                                 // Foreign key to Campaign
	Campaign     Campaign                                                                // Campaign relation, constraint declared on Campaign.Donations
	DonorID      *uint           `gorm:"index"`                                          // Foreign key to the donating User, nil when anonymous
	Donor        *User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // Donor relation, nulled on user delete
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null"`                    // Donated amount
	DonationDate time.Time       `gorm:"autoCreateTime;index"`                           // Set once at creation
	Message      *string         `gorm:"type:text"`                                      // Optional message from the donor
}

// DonatedBy reports whether the donation is attributed to userID
func (d Donation) DonatedBy(userID uint) bool {
	return d.DonorID != nil && *d.DonorID == userID
}
