package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer - a deferred-payment account holder.
type Customer struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:200;not null" json:"name"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Notes     string            `json:"notes"`
	Status    CustomerStatus    `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	Invoices  []CustomerInvoice `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"invoices"`
	Payments  []CustomerPayment `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"payments"`
}

func (Customer) TableName() string { return "customers" }

// CustomerInvoice is a charge against a customer.
type CustomerInvoice struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  uint            `gorm:"column:customerid;not null;index" json:"customerId"`
	InvoiceDate time.Time       `gorm:"not null" json:"date"`
	Description string          `gorm:"size:500;not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
}

func (CustomerInvoice) TableName() string { return "customerinvoices" }

// CustomerPayment is a credit against a customer.
type CustomerPayment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CustomerID  uint            `gorm:"column:customerid;not null;index" json:"customerId"`
	PaymentDate time.Time       `gorm:"not null" json:"date"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:50;not null" json:"method"`
	Note        string          `json:"note"`
}

func (CustomerPayment) TableName() string { return "customerpayments" }
