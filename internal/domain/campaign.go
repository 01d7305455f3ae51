package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of campaign dates
const DateLayout = "2006-01-02"

// Campaign Model
type Campaign struct {
	ID           uint            `gorm:"primaryKey"`                                    // Primary key
	OwnerID      uint            `gorm:"not null;index"`                                // Foreign key to the owning User
	Owner        User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Owner relation, cascades on user delete
	Title        string          `gorm:"size:255;not null"`                             // Campaign title
	Description  string          `gorm:"type:text;not null"`                            // Campaign description
	TargetAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`                   // Fundraising target
	StartDate    time.Time       `gorm:"type:date;not null"`                            // First day of the campaign
	EndDate      time.Time       `gorm:"type:date;not null"`                            // Last day of the campaign
	CreatedAt    time.Time       `gorm:"index"`                                         // Creation timestamp
	UpdatedAt    time.Time                                                              // Last update timestamp
	Donations    []Donation      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Donations, deleted with the campaign
}

// Day truncates t to midnight UTC so dates compare by calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// FormatDate renders a calendar day as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
