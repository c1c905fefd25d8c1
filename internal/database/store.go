package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"

	"gorm.io/gorm"
)

// Store implements store.Gateway on top of gorm.
type Store struct {
	db *gorm.DB
}

var _ store.Gateway = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn func(repo store.Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// lookupErr turns gorm's missing-row error into apperr.NotFoundError.
func lookupErr(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return fmt.Errorf("load %s %v: %w", entity, id, err)
}
