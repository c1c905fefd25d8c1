package memstore

import (
	"context"
	"sort"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
)

func (m *Store) ledgerOf(c *models.Customer) {
	c.Invoices = nil
	c.Payments = nil
	for _, id := range sortedKeys(m.s.customerInvoices) {
		if inv := m.s.customerInvoices[id]; inv.CustomerID == c.ID {
			c.Invoices = append(c.Invoices, inv)
		}
	}
	for _, id := range sortedKeys(m.s.payments) {
		if p := m.s.payments[id]; p.CustomerID == c.ID {
			c.Payments = append(c.Payments, p)
		}
	}
	sort.SliceStable(c.Invoices, func(i, j int) bool {
		return c.Invoices[i].InvoiceDate.Before(c.Invoices[j].InvoiceDate)
	})
	sort.SliceStable(c.Payments, func(i, j int) bool {
		return c.Payments[i].PaymentDate.Before(c.Payments[j].PaymentDate)
	})
}

func (m *Store) ListCustomers(ctx context.Context, withLedger bool) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Customer, 0, len(m.s.customers))
	for _, id := range sortedKeys(m.s.customers) {
		c := m.s.customers[id]
		if withLedger {
			m.ledgerOf(&c)
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Store) CustomerByID(ctx context.Context, id uint, withLedger bool) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.s.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer", id)
	}
	if withLedger {
		m.ledgerOf(&c)
	}
	return &c, nil
}

func (m *Store) SaveCustomer(ctx context.Context, c *models.Customer) error {
	if err := m.fail("SaveCustomer"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&c.ID)
	row := *c
	row.Invoices, row.Payments = nil, nil
	m.s.customers[c.ID] = row
	return nil
}

func (m *Store) DeleteCustomer(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.s.customers[id]; !ok {
		return apperr.NotFound("customer", id)
	}
	for k, inv := range m.s.customerInvoices {
		if inv.CustomerID == id {
			delete(m.s.customerInvoices, k)
		}
	}
	for k, p := range m.s.payments {
		if p.CustomerID == id {
			delete(m.s.payments, k)
		}
	}
	delete(m.s.customers, id)
	return nil
}

func (m *Store) SaveCustomerInvoice(ctx context.Context, inv *models.CustomerInvoice) error {
	if err := m.fail("SaveCustomerInvoice"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&inv.ID)
	m.s.customerInvoices[inv.ID] = *inv
	return nil
}

func (m *Store) PaymentByID(ctx context.Context, id uint) (*models.CustomerPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.s.payments[id]
	if !ok {
		return nil, apperr.NotFound("payment", id)
	}
	return &p, nil
}

func (m *Store) SavePayment(ctx context.Context, p *models.CustomerPayment) error {
	if err := m.fail("SavePayment"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignID(&p.ID)
	m.s.payments[p.ID] = *p
	return nil
}

func (m *Store) DeletePayment(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.s.payments[id]; !ok {
		return apperr.NotFound("payment", id)
	}
	delete(m.s.payments, id)
	return nil
}
