package database

import (
	"context"
	"fmt"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) SaveCashierInvoice(ctx context.Context, inv *models.CashierInvoice) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(inv).Error; err != nil {
		return fmt.Errorf("save cashier invoice: %w", err)
	}
	return nil
}

func (s *Store) CashierInvoiceByID(ctx context.Context, id uint, withItems bool) (*models.CashierInvoice, error) {
	q := s.conn(ctx)
	if withItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	var inv models.CashierInvoice
	if err := q.First(&inv, id).Error; err != nil {
		return nil, lookupErr(err, "cashier invoice", id)
	}
	return &inv, nil
}

// DeleteCashierInvoice removes the header and its lines.
func (s *Store) DeleteCashierInvoice(ctx context.Context, id uint) error {
	var inv models.CashierInvoice
	if err := s.conn(ctx).First(&inv, id).Error; err != nil {
		return lookupErr(err, "cashier invoice", id)
	}
	if err := s.conn(ctx).Select(clause.Associations).Delete(&inv).Error; err != nil {
		return fmt.Errorf("delete cashier invoice %d: %w", id, err)
	}
	return nil
}

func (s *Store) SaveCashierItem(ctx context.Context, item *models.CashierInvoiceItem) error {
	if err := s.conn(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("save cashier invoice item: %w", err)
	}
	return nil
}

func (s *Store) CashierItemByID(ctx context.Context, id uint) (*models.CashierInvoiceItem, error) {
	var item models.CashierInvoiceItem
	if err := s.conn(ctx).First(&item, id).Error; err != nil {
		return nil, lookupErr(err, "cashier invoice item", id)
	}
	return &item, nil
}

func (s *Store) CashierItems(ctx context.Context, invoiceID uint) ([]models.CashierInvoiceItem, error) {
	var items []models.CashierInvoiceItem
	err := s.conn(ctx).
		Where("invoiceid = ?", invoiceID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items of invoice %d: %w", invoiceID, err)
	}
	return items, nil
}
