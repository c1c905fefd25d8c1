// Package store is the persistence gateway the services depend on.
//
// Services only see the Repository and Gateway interfaces. GormStore backs
// them with a relational database, memstore with plain maps for tests.
package store

import (
	"context"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
)

// ProductRepository reads and writes inventory rows.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	LowStockProducts(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	// SaveProduct inserts when ID is zero, otherwise overwrites the row.
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

// CashierRepository reads and writes cashier invoices and their lines.
type CashierRepository interface {
	// SaveCashierInvoice writes the header only; Items are ignored.
	SaveCashierInvoice(ctx context.Context, inv *models.CashierInvoice) error
	CashierInvoiceByID(ctx context.Context, id uint, withItems bool) (*models.CashierInvoice, error)
	DeleteCashierInvoice(ctx context.Context, id uint) error
	FindCashierInvoices(ctx context.Context, f CashierFilter) ([]models.CashierInvoice, error)

	SaveCashierItem(ctx context.Context, item *models.CashierInvoiceItem) error
	CashierItemByID(ctx context.Context, id uint) (*models.CashierInvoiceItem, error)
	CashierItems(ctx context.Context, invoiceID uint) ([]models.CashierInvoiceItem, error)
}

// CustomerRepository reads and writes customers and their ledger entries.
type CustomerRepository interface {
	// ListCustomers returns customers ordered by id. withLedger preloads
	// invoices and payments ordered by date.
	ListCustomers(ctx context.Context, withLedger bool) ([]models.Customer, error)
	CustomerByID(ctx context.Context, id uint, withLedger bool) (*models.Customer, error)
	// SaveCustomer writes the customer row only; Invoices and Payments are ignored.
	SaveCustomer(ctx context.Context, c *models.Customer) error
	// DeleteCustomer removes the customer with all its invoices and payments.
	DeleteCustomer(ctx context.Context, id uint) error

	SaveCustomerInvoice(ctx context.Context, inv *models.CustomerInvoice) error
	PaymentByID(ctx context.Context, id uint) (*models.CustomerPayment, error)
	SavePayment(ctx context.Context, p *models.CustomerPayment) error
	DeletePayment(ctx context.Context, id uint) error
}

type Repository interface {
	ProductRepository
	CashierRepository
	CustomerRepository
}

// Gateway is a Repository that can scope several writes in one transaction.
// If fn returns an error every write made through repo is rolled back.
type Gateway interface {
	Repository
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

// ReturnFilter narrows cashier invoices by whether a return was processed.
type ReturnFilter string

const (
	AnyReturn     ReturnFilter = ""
	WithReturn    ReturnFilter = "withReturn"
	WithoutReturn ReturnFilter = "withoutReturn"
)

// CashierFilter is the report query. Nil/zero fields do not filter.
// From and To are inclusive.
type CashierFilter struct {
	InvoiceID     *uint
	From          *time.Time
	To            *time.Time
	PaymentMethod string
	Suspended     *bool
	Return        ReturnFilter
	Limit         int
}
