package store

import (
	"context"
	"fmt"
	"strconv"

	"crowdfunding/internal/domain"

	"gorm.io/gorm"
)

// DonationFilter narrows donation listings
type DonationFilter struct {
	CampaignID *uint // Only donations to this campaign
	DonorID    *uint // Only donations by this donor
}

// missingCampaign is surfaced as a validation failure of the campaign reference
func missingCampaign(id uint) error {
	return &domain.ValidationError{
		Field:   "campaign",
		Message: fmt.Sprintf("Invalid pk %q - object does not exist.", strconv.FormatUint(uint64(id), 10)),
	}
}

func withDonationRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Campaign").Preload("Donor")
}

// CreateDonation inserts d after checking its campaign exists
func (s *Store) CreateDonation(ctx context.Context, d *domain.Donation) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := campaignExists(tx, d.CampaignID)
		if err != nil {
			return err
		}
		if !ok {
			return missingCampaign(d.CampaignID)
		}
		if err := tx.Omit("Campaign", "Donor").Create(d).Error; err != nil {
			return fmt.Errorf("create donation: %w", err)
		}
		return nil
	})
}

// Donation loads a donation with its campaign and donor
func (s *Store) Donation(ctx context.Context, id uint) (*domain.Donation, error) {
	var d domain.Donation
	if err := withDonationRelations(s.conn(ctx)).First(&d, id).Error; err != nil {
		return nil, notFound(err, "donation", id)
	}
	return &d, nil
}

// ListDonations returns donations matching f, newest first
func (s *Store) ListDonations(ctx context.Context, f DonationFilter) ([]domain.Donation, error) {
	query := withDonationRelations(s.conn(ctx)).Model(&domain.Donation{})
	if f.CampaignID != nil {
		query = query.Where("campaign_id = ?", *f.CampaignID) // Filter by campaign
	}
	if f.DonorID != nil {
		query = query.Where("donor_id = ?", *f.DonorID) // Filter by donor
	}
	var donations []domain.Donation
	if err := orderDonations(query).Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	return donations, nil
}

// DonationsByDonors returns every donation attributed to one of donorIDs
func (s *Store) DonationsByDonors(ctx context.Context, donorIDs []uint) ([]domain.Donation, error) {
	if len(donorIDs) == 0 {
		return nil, nil
	}
	var donations []domain.Donation
	if err := orderDonations(s.conn(ctx).Where("donor_id IN ?", donorIDs)).Find(&donations).Error; err != nil {
		return nil, fmt.Errorf("list donations by donors: %w", err)
	}
	return donations, nil
}

// UpdateDonation writes the editable fields of d; donor and donation date are untouched
func (s *Store) UpdateDonation(ctx context.Context, d *domain.Donation) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := campaignExists(tx, d.CampaignID)
		if err != nil {
			return err
		}
		if !ok {
			return missingCampaign(d.CampaignID)
		}
		err = tx.Model(&domain.Donation{}).Where("id = ?", d.ID).Updates(map[string]any{
			"campaign_id": d.CampaignID,
			"amount":      d.Amount,
			"message":     d.Message,
		}).Error
		if err != nil {
			return fmt.Errorf("update donation %d: %w", d.ID, err)
		}
		return nil
	})
}

// DeleteDonation removes one donation
func (s *Store) DeleteDonation(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&domain.Donation{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete donation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "donation", ID: id}
	}
	return nil
}
