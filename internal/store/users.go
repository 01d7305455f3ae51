package store

import (
	"context"
	"errors"
	"fmt"

	"crowdfunding/internal/domain"

	"gorm.io/gorm"
)

// CreateUser inserts u, reporting a ConflictError when username, email or phone is taken
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		// Check each unique column so the conflict names the field
		for _, f := range []struct{ column, value string }{
			{"username", u.Username},
			{"email", u.Email},
			{"phone", u.Phone},
		} {
			var n int64
			if err := tx.Model(&domain.User{}).Where(f.column+" = ?", f.value).Count(&n).Error; err != nil {
				return fmt.Errorf("check %s: %w", f.column, err)
			}
			if n > 0 {
				return &domain.ConflictError{Field: f.column}
			}
		}
		if err := tx.Create(u).Error; err != nil {
			// A concurrent insert can still win the race
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &domain.ConflictError{}
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// UserByID loads a user by primary key
func (s *Store) UserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

// UserByUsername loads a user by username
func (s *Store) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := s.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &domain.NotFoundError{Resource: "user", Key: username}
		}
		return nil, fmt.Errorf("load user %q: %w", username, err)
	}
	return &u, nil
}

// ListUsers returns one page of users ordered by id, plus the total count
func (s *Store) ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	var total int64
	if err := s.conn(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	offset := (page - 1) * pageSize
	if err := s.conn(ctx).Order("id").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// DeleteUser removes a user. Their donations stay with a null donor;
// their campaigns are deleted together with all donations to them.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Donation{}).Where("donor_id = ?", id).Update("donor_id", nil).Error; err != nil {
			return fmt.Errorf("detach donations: %w", err)
		}
		var campaignIDs []uint
		if err := tx.Model(&domain.Campaign{}).Where("owner_id = ?", id).Pluck("id", &campaignIDs).Error; err != nil {
			return fmt.Errorf("find campaigns: %w", err)
		}
		if len(campaignIDs) > 0 {
			if err := tx.Where("campaign_id IN ?", campaignIDs).Delete(&domain.Donation{}).Error; err != nil {
				return fmt.Errorf("delete campaign donations: %w", err)
			}
			if err := tx.Where("id IN ?", campaignIDs).Delete(&domain.Campaign{}).Error; err != nil {
				return fmt.Errorf("delete campaigns: %w", err)
			}
		}
		res := tx.Delete(&domain.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{Resource: "user", ID: id}
		}
		return nil
	})
}
