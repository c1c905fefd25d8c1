package database

import (
	"context"
	"fmt"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func withLedger(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Invoices", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_date, id") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date, id") })
}

func (s *Store) ListCustomers(ctx context.Context, ledger bool) ([]models.Customer, error) {
	q := s.conn(ctx)
	if ledger {
		q = withLedger(q)
	}
	var customers []models.Customer
	if err := q.Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *Store) CustomerByID(ctx context.Context, id uint, ledger bool) (*models.Customer, error) {
	q := s.conn(ctx)
	if ledger {
		q = withLedger(q)
	}
	var c models.Customer
	if err := q.First(&c, id).Error; err != nil {
		return nil, lookupErr(err, "customer", id)
	}
	return &c, nil
}

func (s *Store) SaveCustomer(ctx context.Context, c *models.Customer) error {
	if err := s.conn(ctx).Omit(clause.Associations).Save(c).Error; err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	var c models.Customer
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		return lookupErr(err, "customer", id)
	}
	if err := s.conn(ctx).Select(clause.Associations).Delete(&c).Error; err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	return nil
}

func (s *Store) SaveCustomerInvoice(ctx context.Context, inv *models.CustomerInvoice) error {
	if err := s.conn(ctx).Save(inv).Error; err != nil {
		return fmt.Errorf("save customer invoice: %w", err)
	}
	return nil
}

func (s *Store) PaymentByID(ctx context.Context, id uint) (*models.CustomerPayment, error) {
	var p models.CustomerPayment
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "payment", id)
	}
	return &p, nil
}

func (s *Store) SavePayment(ctx context.Context, p *models.CustomerPayment) error {
	if err := s.conn(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

func (s *Store) DeletePayment(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.CustomerPayment{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete payment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("payment", id)
	}
	return nil
}
