package database

import (
	"context"
	"fmt"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"
)

// FindCashierInvoices applies the report filter, newest id first.
func (s *Store) FindCashierInvoices(ctx context.Context, f store.CashierFilter) ([]models.CashierInvoice, error) {
	q := s.conn(ctx).Model(&models.CashierInvoice{})

	if f.InvoiceID != nil {
		q = q.Where("id = ?", *f.InvoiceID)
	}
	if f.From != nil {
		q = q.Where("invoicedate >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("invoicedate <= ?", f.To.UTC())
	}
	if f.PaymentMethod != "" {
		q = q.Where("paymentmethod = ?", f.PaymentMethod)
	}
	if f.Suspended != nil {
		q = q.Where("issuspended = ?", *f.Suspended)
	}
	switch f.Return {
	case store.WithReturn:
		q = q.Where("returntotal > 0")
	case store.WithoutReturn:
		q = q.Where("returntotal = 0")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var invoices []models.CashierInvoice
	if err := q.Order("id desc").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("cashier invoice report: %w", err)
	}
	return invoices, nil
}
