package memstore

import (
	"context"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"
)

func (m *Store) SaveCashierInvoice(ctx context.Context, inv *models.CashierInvoice) error {
	if err := m.fail("SaveCashierInvoice"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&inv.ID)
	row := *inv
	row.Items = nil
	m.s.cashierInvoices[inv.ID] = row
	return nil
}

func (m *Store) CashierInvoiceByID(ctx context.Context, id uint, withItems bool) (*models.CashierInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.s.cashierInvoices[id]
	if !ok {
		return nil, apperr.NotFound("cashier invoice", id)
	}
	if withItems {
		inv.Items = m.itemsOf(id)
	}
	return &inv, nil
}

func (m *Store) itemsOf(invoiceID uint) []models.CashierInvoiceItem {
	var items []models.CashierInvoiceItem
	for _, id := range sortedKeys(m.s.cashierItems) {
		if it := m.s.cashierItems[id]; it.InvoiceID == invoiceID {
			items = append(items, it)
		}
	}
	return items
}

func (m *Store) DeleteCashierInvoice(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.s.cashierInvoices[id]; !ok {
		return apperr.NotFound("cashier invoice", id)
	}
	for itemID, it := range m.s.cashierItems {
		if it.InvoiceID == id {
			delete(m.s.cashierItems, itemID)
		}
	}
	delete(m.s.cashierInvoices, id)
	return nil
}

func (m *Store) FindCashierInvoices(ctx context.Context, f store.CashierFilter) ([]models.CashierInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := sortedKeys(m.s.cashierInvoices)
	var out []models.CashierInvoice
	for i := len(keys) - 1; i >= 0; i-- {
		inv := m.s.cashierInvoices[keys[i]]
		if !matches(inv, f) {
			continue
		}
		out = append(out, inv)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func matches(inv models.CashierInvoice, f store.CashierFilter) bool {
	if f.InvoiceID != nil && inv.ID != *f.InvoiceID {
		return false
	}
	if f.From != nil && inv.InvoiceDate.Before(*f.From) {
		return false
	}
	if f.To != nil && inv.InvoiceDate.After(*f.To) {
		return false
	}
	if f.PaymentMethod != "" && inv.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.Suspended != nil && inv.IsSuspended != *f.Suspended {
		return false
	}
	switch f.Return {
	case store.WithReturn:
		return inv.ReturnTotal.IsPositive()
	case store.WithoutReturn:
		return inv.ReturnTotal.IsZero()
	}
	return true
}

func (m *Store) SaveCashierItem(ctx context.Context, item *models.CashierInvoiceItem) error {
	if err := m.fail("SaveCashierItem"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&item.ID)
	m.s.cashierItems[item.ID] = *item
	return nil
}

func (m *Store) CashierItemByID(ctx context.Context, id uint) (*models.CashierInvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.s.cashierItems[id]
	if !ok {
		return nil, apperr.NotFound("cashier invoice item", id)
	}
	return &it, nil
}

func (m *Store) CashierItems(ctx context.Context, invoiceID uint) ([]models.CashierInvoiceItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.itemsOf(invoiceID), nil
}
