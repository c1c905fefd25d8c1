package services

import (
	"context"
	"strings"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/validation"
)

// ReportLimit caps the rows a cashier report returns.
const ReportLimit = 500

// ReportQuery is the cashier report filter as it arrives on the query string.
// Blank fields do not filter. A date-only To covers the whole day.
type ReportQuery struct {
	InvoiceID     *uint  `form:"invoiceId"`
	From          string `form:"from"`
	To            string `form:"to"`
	PaymentMethod string `form:"paymentMethod"`
	Status        string `form:"status" validate:"omitempty,oneof=suspended normal all"`
	ReturnFilter  string `form:"returnFilter" validate:"omitempty,oneof=withReturn withoutReturn all"`
}

func (q ReportQuery) filter() (store.CashierFilter, error) {
	if err := validation.Struct(q); err != nil {
		return store.CashierFilter{}, err
	}
	f := store.CashierFilter{
		InvoiceID:     q.InvoiceID,
		PaymentMethod: strings.TrimSpace(q.PaymentMethod),
		Limit:         ReportLimit,
	}
	if strings.TrimSpace(q.From) != "" {
		from, _, err := parseTime("from", q.From)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if strings.TrimSpace(q.To) != "" {
		to, wholeDay, err := parseTime("to", q.To)
		if err != nil {
			return f, err
		}
		if wholeDay {
			to = endOfDay(to)
		}
		f.To = &to
	}
	switch q.Status {
	case "suspended":
		suspended := true
		f.Suspended = &suspended
	case "normal":
		suspended := false
		f.Suspended = &suspended
	}
	switch q.ReturnFilter {
	case string(store.WithReturn):
		f.Return = store.WithReturn
	case string(store.WithoutReturn):
		f.Return = store.WithoutReturn
	}
	return f, nil
}

// Report lists cashier invoices matching q, newest first.
func (s *CashierService) Report(ctx context.Context, q ReportQuery) ([]models.CashierInvoice, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.gw.FindCashierInvoices(ctx, f)
}
