// Package store is the persistence layer: gorm-backed CRUD for users, campaigns
// and donations with the cascade and null-out rules applied explicitly inside
// transactions.
package store

import (
	"context"
	"errors"
	"fmt"

	"crowdfunding/internal/domain"

	"gorm.io/gorm"
)

// Store wraps a gorm connection
type Store struct {
	db *gorm.DB
}

// New returns a Store using db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection
func (s *Store) DB() *gorm.DB {
	return s.db
}

// notFound converts gorm's record-not-found into a NotFoundError
func notFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("load %s %d: %w", resource, id, err)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
