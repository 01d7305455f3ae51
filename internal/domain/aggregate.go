package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CampaignSummary holds the derived metrics of one campaign
type CampaignSummary struct {
	Total    decimal.Decimal // Sum of donation amounts
	Count    int             // Number of donations
	Progress int64           // Percentage of target reached, 0..100
}

// CampaignTotal sums the amounts of the campaign's loaded donations
func CampaignTotal(c Campaign) decimal.Decimal {
	total := decimal.Zero
	for _, d := range c.Donations {
		total = total.Add(d.Amount)
	}
	return total
}

// CampaignDonationCount returns how many donations the campaign has
func CampaignDonationCount(c Campaign) int {
	return len(c.Donations)
}

// Progress returns min(round(total/target*100), 100) using banker's rounding.
// A zero (or negative) target yields 0.
func Progress(target, total decimal.Decimal) int64 {
	if !target.IsPositive() {
		return 0
	}
	pct := total.Mul(hundred).Div(target).RoundBank(0).IntPart()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// CampaignProgress derives the progress percentage from the campaign's donations
func CampaignProgress(c Campaign) int64 {
	return Progress(c.TargetAmount, CampaignTotal(c))
}

// Summarize computes all derived campaign metrics from one snapshot
func Summarize(c Campaign) CampaignSummary {
	total := CampaignTotal(c)
	return CampaignSummary{
		Total:    total,
		Count:    CampaignDonationCount(c),
		Progress: Progress(c.TargetAmount, total),
	}
}

// UserTotalDonated sums the donations attributed to userID
func UserTotalDonated(userID uint, donations []Donation) decimal.Decimal {
	total := decimal.Zero
	for _, d := range donations {
		if d.DonatedBy(userID) {
			total = total.Add(d.Amount)
		}
	}
	return total
}

// ActiveCampaigns returns the campaigns owned by userID whose end date is today or later,
// newest first
func ActiveCampaigns(userID uint, campaigns []Campaign, today time.Time) []Campaign {
	today = Day(today)
	active := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.OwnerID != userID {
			continue
		}
		if Day(c.EndDate).Before(today) {
			continue
		}
		active = append(active, c)
	}
	SortCampaigns(active)
	return active
}

// SortCampaigns applies the default campaign ordering: created_at desc, id desc
func SortCampaigns(campaigns []Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		if !campaigns[i].CreatedAt.Equal(campaigns[j].CreatedAt) {
			return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
		}
		return campaigns[i].ID > campaigns[j].ID
	})
}
