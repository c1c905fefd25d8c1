package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashierInvoice - The Transaction Header
//
// ReturnTotal accumulates every return processed against the invoice and
// never decreases.
type CashierInvoice struct {
	ID            uint                 `gorm:"primaryKey;column:id" json:"id"`
	InvoiceDate   time.Time            `gorm:"column:invoicedate;not null;index" json:"invoiceDate"`
	PaymentMethod string               `gorm:"column:paymentmethod;not null" json:"paymentMethod"`
	CustomerName  string               `gorm:"column:customername" json:"customerName"`
	CustomerPhone string               `gorm:"column:customerphone" json:"customerPhone"`
	Subtotal      decimal.Decimal      `gorm:"column:subtotal;type:numeric(18,2);not null" json:"subtotal"`
	DiscountTotal decimal.Decimal      `gorm:"column:discounttotal;type:numeric(18,2);not null" json:"discountTotal"`
	VatTotal      decimal.Decimal      `gorm:"column:vattotal;type:numeric(18,2);not null" json:"vatTotal"`
	GrandTotal    decimal.Decimal      `gorm:"column:grandtotal;type:numeric(18,2);not null" json:"grandTotal"`
	ReturnTotal   decimal.Decimal      `gorm:"column:returntotal;type:numeric(18,2);not null;default:0" json:"returnTotal"`
	IsSuspended   bool                 `gorm:"column:issuspended;not null" json:"isSuspended"`
	Notes         string               `gorm:"column:notes" json:"notes"`
	Items         []CashierInvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (CashierInvoice) TableName() string { return "cashierinvoices" }

// CashierInvoiceItem - one sold line.
//
// ProductName and Barcode are snapshots taken at sale time. Quantity is the
// remaining un-returned quantity; returns decrement it in place.
type CashierInvoiceItem struct {
	ID          uint            `gorm:"primaryKey;column:id" json:"id"`
	InvoiceID   uint            `gorm:"column:invoiceid;not null;index" json:"invoiceId"`
	ProductName string          `gorm:"column:productname" json:"productName"`
	Barcode     string          `gorm:"column:barcode" json:"barcode"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,3);not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null" json:"price"`
	Discount    decimal.Decimal `gorm:"column:discount;type:numeric(18,2);not null" json:"discount"`
	TaxIncluded bool            `gorm:"column:taxincluded;not null" json:"taxIncluded"`
	HasOffer    bool            `gorm:"column:hasoffer;not null" json:"hasOffer"`
	OfferName   string          `gorm:"column:offername" json:"offerName"`
}

func (CashierInvoiceItem) TableName() string { return "cashierinvoiceitems" }
