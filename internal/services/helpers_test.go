package services

import (
	"context"
	"testing"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func newCashier(t *testing.T) (*CashierService, *memstore.Store) {
	t.Helper()
	db := memstore.New()
	svc := NewCashierService(db, zaptest.NewLogger(t))
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func newCustomers(t *testing.T) (*CustomerService, *memstore.Store) {
	t.Helper()
	db := memstore.New()
	svc := NewCustomerService(db, zaptest.NewLogger(t))
	svc.now = func() time.Time { return fixedNow }
	return svc, db
}

func seedProduct(t *testing.T, db *memstore.Store, barcode string, qty, sold int) *models.Product {
	t.Helper()
	p := &models.Product{
		Barcode:       barcode,
		Name:          "product " + barcode,
		Quantity:      qty,
		SoldQuantity:  sold,
		SalePrice:     dec("5"),
		PurchasePrice: dec("3"),
		IsVatIncluded: true,
	}
	require.NoError(t, db.SaveProduct(context.Background(), p))
	return p
}

func reloadProduct(t *testing.T, db *memstore.Store, id uint) *models.Product {
	t.Helper()
	p, err := db.ProductByID(context.Background(), id)
	require.NoError(t, err)
	return p
}
