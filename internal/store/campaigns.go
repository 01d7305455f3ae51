package store

import (
	"context"
	"fmt"
	"strings"

	"crowdfunding/internal/domain"

	"gorm.io/gorm"
)

// CampaignFilter narrows campaign listings
type CampaignFilter struct {
	OwnerID *uint  // Only campaigns of this owner
	Search  string // Case-insensitive substring of title or description; % and _ match literally
}

// likeEscaper makes % and _ in a search term match literally. '!' is the escape
// character because a backslash is itself an escape in MySQL string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// orderDonations applies the default donation ordering to a preload
func orderDonations(db *gorm.DB) *gorm.DB {
	return db.Order("donation_date desc").Order("id desc")
}

// withCampaignRelations preloads everything a campaign payload needs
func withCampaignRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Owner").
		Preload("Donations", orderDonations).
		Preload("Donations.Donor")
}

// CreateCampaign inserts c; c.OwnerID must already be set
func (s *Store) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	if err := s.conn(ctx).Omit("Owner", "Donations").Create(c).Error; err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

// Campaign loads a campaign with its owner and a fresh snapshot of its donations
func (s *Store) Campaign(ctx context.Context, id uint) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := withCampaignRelations(s.conn(ctx)).First(&c, id).Error; err != nil {
		return nil, notFound(err, "campaign", id)
	}
	return &c, nil
}

// ListCampaigns returns campaigns matching f in default ordering (newest first)
func (s *Store) ListCampaigns(ctx context.Context, f CampaignFilter) ([]domain.Campaign, error) {
	query := withCampaignRelations(s.conn(ctx)).Model(&domain.Campaign{})
	if f.OwnerID != nil {
		query = query.Where("owner_id = ?", *f.OwnerID) // Filter by owner
	}
	if f.Search != "" {
		like := "%" + likeEscaper.Replace(f.Search) + "%"
		query = query.Where("title LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!'", like, like) // Search title and description
	}
	var campaigns []domain.Campaign
	if err := query.Order("created_at desc").Order("id desc").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaign writes the editable fields of c; owner and created_at are untouched
func (s *Store) UpdateCampaign(ctx context.Context, c *domain.Campaign) error {
	err := s.conn(ctx).Model(&domain.Campaign{}).Where("id = ?", c.ID).Updates(map[string]any{
		"title":         c.Title,
		"description":   c.Description,
		"target_amount": c.TargetAmount,
		"start_date":    c.StartDate,
		"end_date":      c.EndDate,
	}).Error
	if err != nil {
		return fmt.Errorf("update campaign %d: %w", c.ID, err)
	}
	return nil
}

// DeleteCampaign removes a campaign and every donation made to it
func (s *Store) DeleteCampaign(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&domain.Donation{}).Error; err != nil {
			return fmt.Errorf("delete donations of campaign %d: %w", id, err)
		}
		res := tx.Delete(&domain.Campaign{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete campaign %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{Resource: "campaign", ID: id}
		}
		return nil
	})
}

// CampaignExists reports whether a campaign with id is stored
func (s *Store) CampaignExists(ctx context.Context, id uint) (bool, error) {
	return campaignExists(s.conn(ctx), id)
}

func campaignExists(db *gorm.DB, id uint) (bool, error) {
	var n int64
	if err := db.Model(&domain.Campaign{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check campaign %d: %w", id, err)
	}
	return n > 0, nil
}
