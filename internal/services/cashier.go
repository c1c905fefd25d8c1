package services

import (
	"context"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const notesSeparator = " | "

// InvoiceItemInput is one sold line as sent by the till.
type InvoiceItemInput struct {
	ProductName string          `json:"productName"`
	Barcode     string          `json:"barcode"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxIncluded bool            `json:"taxIncluded"`
	HasOffer    bool            `json:"hasOffer"`
	OfferName   string          `json:"offerName"`
}

// check rejects lines a return could turn into a negative refund.
func (in InvoiceItemInput) check(i int) error {
	switch {
	case !in.Quantity.IsPositive():
		return apperr.Validation("items[%d]: quantity must be greater than 0", i)
	case in.Price.IsNegative():
		return apperr.Validation("items[%d]: price must not be negative", i)
	case in.Discount.IsNegative():
		return apperr.Validation("items[%d]: discount must not be negative", i)
	case in.Discount.GreaterThan(in.Price.Mul(in.Quantity)):
		return apperr.Validation("items[%d]: discount exceeds line total", i)
	}
	return nil
}

// CreateInvoiceRequest is a finished or parked sale. Totals are computed by the till.
type CreateInvoiceRequest struct {
	InvoiceDate   *time.Time         `json:"invoiceDate"`
	PaymentMethod string             `json:"paymentMethod"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	DiscountTotal decimal.Decimal    `json:"discountTotal"`
	VatTotal      decimal.Decimal    `json:"vatTotal"`
	GrandTotal    decimal.Decimal    `json:"grandTotal"`
	IsSuspended   bool               `json:"isSuspended"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items"`
}

// ReturnItem asks to give back Quantity units of one invoice line.
type ReturnItem struct {
	ItemID   uint            `json:"itemId"`
	Quantity decimal.Decimal `json:"quantity"`
}

type ReturnRequest struct {
	Items []ReturnItem `json:"items"`
	Note  string       `json:"note"`
}

// CashierService creates cashier invoices and applies returns against them,
// keeping product stock in step.
type CashierService struct {
	gw  store.Gateway
	log *zap.Logger
	now func() time.Time
}

func NewCashierService(gw store.Gateway, log *zap.Logger) *CashierService {
	return &CashierService{gw: gw, log: log, now: time.Now}
}

// CreateInvoice stores the header, then each line, taking sold units out of
// stock for lines whose barcode matches a product. Stock may go negative.
// A barcode with no product leaves inventory alone for that line.
func (s *CashierService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (uint, error) {
	inv := models.CashierInvoice{
		InvoiceDate:   s.now().UTC(),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Subtotal:      req.Subtotal,
		DiscountTotal: req.DiscountTotal,
		VatTotal:      req.VatTotal,
		GrandTotal:    req.GrandTotal,
		ReturnTotal:   decimal.Zero,
		IsSuspended:   req.IsSuspended,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if req.InvoiceDate != nil {
		inv.InvoiceDate = req.InvoiceDate.UTC()
	}
	if inv.PaymentMethod == "" {
		inv.PaymentMethod = string(models.MethodCash)
	}
	for i, in := range req.Items {
		if err := in.check(i); err != nil {
			return 0, err
		}
	}

	err := s.gw.Transaction(ctx, func(repo store.Repository) error {
		if err := repo.SaveCashierInvoice(ctx, &inv); err != nil {
			return err
		}
		for _, in := range req.Items {
			item := models.CashierInvoiceItem{
				InvoiceID:   inv.ID,
				ProductName: in.ProductName,
				Barcode:     strings.TrimSpace(in.Barcode),
				Quantity:    in.Quantity,
				Price:       in.Price,
				Discount:    in.Discount,
				TaxIncluded: in.TaxIncluded,
				HasOffer:    in.HasOffer,
				OfferName:   in.OfferName,
			}
			if item.Barcode != "" {
				if err := s.takeFromStock(ctx, repo, &item); err != nil {
					return err
				}
			}
			if err := repo.SaveCashierItem(ctx, &item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("cashier invoice created",
		zap.Uint("invoice_id", inv.ID),
		zap.Int("items", len(req.Items)),
		zap.String("grand_total", inv.GrandTotal.String()),
		zap.Bool("suspended", inv.IsSuspended))
	return inv.ID, nil
}

func (s *CashierService) takeFromStock(ctx context.Context, repo store.Repository, item *models.CashierInvoiceItem) error {
	p, err := repo.ProductByBarcode(ctx, item.Barcode)
	if apperr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if strings.TrimSpace(item.ProductName) == "" {
		item.ProductName = p.Name
	}
	units := models.WholeUnits(item.Quantity)
	p.Quantity -= units
	p.SoldQuantity += units
	return repo.SaveProduct(ctx, p)
}

// ProcessReturn gives back quantities from invoice lines and returns the
// invoice's new cumulative return total.
//
// Lines that are unknown, belong to another invoice, have nothing left, or are
// asked for a non-positive quantity are skipped. The requested quantity is
// capped at what remains on the line. A line's discount is spread evenly over
// the quantity still on the line, not the originally sold quantity, since the
// latter is not kept. The request total is rounded once, after summing lines.
func (s *CashierService) ProcessReturn(ctx context.Context, invoiceID uint, req ReturnRequest) (decimal.Decimal, error) {
	if len(req.Items) == 0 {
		return decimal.Zero, apperr.Validation("no items to return")
	}

	var cumulative decimal.Decimal
	err := s.gw.Transaction(ctx, func(repo store.Repository) error {
		inv, err := repo.CashierInvoiceByID(ctx, invoiceID, false)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, ri := range req.Items {
			amount, err := s.returnLine(ctx, repo, invoiceID, ri)
			if err != nil {
				return err
			}
			total = total.Add(amount)
		}

		inv.ReturnTotal = inv.ReturnTotal.Add(models.Round2(total))
		if note := strings.TrimSpace(req.Note); note != "" {
			if inv.Notes == "" {
				inv.Notes = note
			} else {
				inv.Notes = inv.Notes + notesSeparator + note
			}
		}
		if err := repo.SaveCashierInvoice(ctx, inv); err != nil {
			return err
		}
		cumulative = inv.ReturnTotal
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.log.Info("cashier return processed",
		zap.Uint("invoice_id", invoiceID),
		zap.Int("requested_lines", len(req.Items)),
		zap.String("return_total", cumulative.String()))
	return cumulative, nil
}

// returnLine applies one requested return and yields its refund value.
// Skipped lines yield zero.
func (s *CashierService) returnLine(ctx context.Context, repo store.Repository, invoiceID uint, ri ReturnItem) (decimal.Decimal, error) {
	item, err := repo.CashierItemByID(ctx, ri.ItemID)
	if apperr.IsNotFound(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	available := item.Quantity
	qty := ri.Quantity
	if item.InvoiceID != invoiceID || !available.IsPositive() || !qty.IsPositive() {
		s.log.Debug("return line skipped", zap.Uint("item_id", ri.ItemID))
		return decimal.Zero, nil
	}
	qty = decimal.Min(qty, available)

	gross := item.Price.Mul(qty)
	perUnitDiscount := item.Discount.Div(available)
	// stored lines may predate item checks; a refund is never negative
	amount := decimal.Max(gross.Sub(perUnitDiscount.Mul(qty)), decimal.Zero)

	item.Quantity = decimal.Max(available.Sub(qty), decimal.Zero)
	if err := repo.SaveCashierItem(ctx, item); err != nil {
		return decimal.Zero, err
	}

	if barcode := strings.TrimSpace(item.Barcode); barcode != "" {
		if err := restock(ctx, repo, barcode, models.WholeUnits(qty)); err != nil {
			return decimal.Zero, err
		}
	}
	return amount, nil
}

// restock puts units back on hand. SoldQuantity never drops below zero.
func restock(ctx context.Context, repo store.Repository, barcode string, units int) error {
	p, err := repo.ProductByBarcode(ctx, barcode)
	if apperr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	p.Quantity += units
	p.SoldQuantity -= units
	if p.SoldQuantity < 0 {
		p.SoldQuantity = 0
	}
	return repo.SaveProduct(ctx, p)
}

// Invoice returns the header with its lines.
func (s *CashierService) Invoice(ctx context.Context, id uint) (*models.CashierInvoice, error) {
	return s.gw.CashierInvoiceByID(ctx, id, true)
}

func (s *CashierService) Items(ctx context.Context, invoiceID uint) ([]models.CashierInvoiceItem, error) {
	return s.gw.CashierItems(ctx, invoiceID)
}

// DeleteInvoice removes the invoice and its lines. Stock is not touched.
func (s *CashierService) DeleteInvoice(ctx context.Context, id uint) error {
	if err := s.gw.DeleteCashierInvoice(ctx, id); err != nil {
		return err
	}
	s.log.Info("cashier invoice deleted", zap.Uint("invoice_id", id))
	return nil
}
