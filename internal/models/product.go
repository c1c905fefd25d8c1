package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product - The Inventory
//
// Quantity is the on-hand stock and SoldQuantity the cumulative amount sold.
// Both are mutated by cashier sales and returns.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Barcode       string          `gorm:"index" json:"barcode"`
	Name          string          `json:"name"`
	SupplierName  string          `json:"supplierName"`
	Category      string          `json:"category"`
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`
	MinQuantity   int             `gorm:"not null;default:0" json:"minQuantity"`
	SoldQuantity  int             `gorm:"not null;default:0" json:"soldQuantity"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"purchasePrice"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"salePrice"`
	IsVatIncluded bool            `gorm:"not null" json:"isVatIncluded"`
	ExpiryDate    *datatypes.Date `json:"expiryDate"`

	// Promotional offer
	OfferEnabled     bool             `json:"offerEnabled"`
	OfferName        string           `json:"offerName"`
	OfferPrice       *decimal.Decimal `gorm:"type:numeric(18,2)" json:"offerPrice"`
	OfferVatIncluded bool             `json:"offerVatIncluded"`
	OfferStart       *time.Time       `json:"offerStart"`
	OfferEnd         *time.Time       `json:"offerEnd"`
}

func (Product) TableName() string { return "products" }

// RemainingQuantity is the legacy derived value quantity - soldQuantity.
// It predates Quantity meaning on-hand stock and is only exposed for older clients.
func (p Product) RemainingQuantity() int {
	return p.Quantity - p.SoldQuantity
}

// LowStock reports whether on-hand stock reached the reorder threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}

// OfferActive reports whether the promotional price applies at the given instant.
func (p Product) OfferActive(at time.Time) bool {
	if !p.OfferEnabled || p.OfferPrice == nil {
		return false
	}
	if p.OfferStart != nil && at.Before(*p.OfferStart) {
		return false
	}
	if p.OfferEnd != nil && at.After(*p.OfferEnd) {
		return false
	}
	return true
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		RemainingQuantity int `json:"remainingQuantity"`
	}{plain(p), p.RemainingQuantity()})
}
