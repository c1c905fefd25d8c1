// Package memstore is an in-memory store.Gateway for tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"
)

type state struct {
	products         map[uint]models.Product
	cashierInvoices  map[uint]models.CashierInvoice
	cashierItems     map[uint]models.CashierInvoiceItem
	customers        map[uint]models.Customer
	customerInvoices map[uint]models.CustomerInvoice
	payments         map[uint]models.CustomerPayment
	nextID           uint
}

func (s *state) clone() *state {
	c := &state{
		products:         make(map[uint]models.Product, len(s.products)),
		cashierInvoices:  make(map[uint]models.CashierInvoice, len(s.cashierInvoices)),
		cashierItems:     make(map[uint]models.CashierInvoiceItem, len(s.cashierItems)),
		customers:        make(map[uint]models.Customer, len(s.customers)),
		customerInvoices: make(map[uint]models.CustomerInvoice, len(s.customerInvoices)),
		payments:         make(map[uint]models.CustomerPayment, len(s.payments)),
		nextID:           s.nextID,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.cashierInvoices {
		c.cashierInvoices[k] = v
	}
	for k, v := range s.cashierItems {
		c.cashierItems[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.customerInvoices {
		c.customerInvoices[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	return c
}

// Store keeps rows in maps. IDs are shared across tables and start at 1.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	s    *state

	// FailOn makes the named operation return the error, for rollback tests.
	FailOn map[string]error
}

var _ store.Gateway = (*Store)(nil)

func New() *Store {
	return &Store{s: (&state{}).clone(), FailOn: map[string]error{}}
}

// Transaction restores the previous state when fn fails.
func (m *Store) Transaction(ctx context.Context, fn func(repo store.Repository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.s.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.s = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Store) fail(op string) error {
	if m.FailOn == nil {
		return nil
	}
	return m.FailOn[op]
}

func (m *Store) assignID(id *uint) {
	if *id == 0 {
		m.s.nextID++
		*id = m.s.nextID
	}
}

func sortedKeys[V any](rows map[uint]V) []uint {
	keys := make([]uint, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ---- products

func (m *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.s.products))
	for _, id := range sortedKeys(m.s.products) {
		out = append(out, m.s.products[id])
	}
	return out, nil
}

func (m *Store) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	all, _ := m.ListProducts(ctx)
	var out []models.Product
	for _, p := range all {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity < out[j].Quantity })
	return out, nil
}

func (m *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.s.products[id]
	if !ok {
		return nil, apperr.NotFound("product", id)
	}
	return &p, nil
}

func (m *Store) ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range sortedKeys(m.s.products) {
		if p := m.s.products[id]; p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, apperr.NotFound("product with barcode", barcode)
}

func (m *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	if err := m.fail("SaveProduct"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&p.ID)
	m.s.products[p.ID] = *p
	return nil
}

func (m *Store) DeleteProduct(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.s.products[id]; !ok {
		return apperr.NotFound("product", id)
	}
	delete(m.s.products, id)
	return nil
}
