package services

import (
	"context"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	descOpeningBalance       = "opening balance"
	descOpeningBalanceOnEdit = "opening balance added on edit"
	descManualAdjustment     = "manual balance adjustment"
)

// Totals is the balance of a customer, derived from its ledger each time.
type Totals struct {
	InvoicesTotal   decimal.Decimal `json:"invoicesTotal"`
	PaymentsTotal   decimal.Decimal `json:"paymentsTotal"`
	Remaining       decimal.Decimal `json:"remaining"`
	LastInvoiceDate *time.Time      `json:"lastInvoiceDate"`
}

// CalculateTotals sums charges and credits. Remaining is negative when the
// customer overpaid.
func CalculateTotals(c models.Customer) Totals {
	t := Totals{InvoicesTotal: decimal.Zero, PaymentsTotal: decimal.Zero}
	for _, inv := range c.Invoices {
		t.InvoicesTotal = t.InvoicesTotal.Add(inv.Amount)
		if t.LastInvoiceDate == nil || inv.InvoiceDate.After(*t.LastInvoiceDate) {
			d := inv.InvoiceDate
			t.LastInvoiceDate = &d
		}
	}
	for _, p := range c.Payments {
		t.PaymentsTotal = t.PaymentsTotal.Add(p.Amount)
	}
	t.Remaining = t.InvoicesTotal.Sub(t.PaymentsTotal)
	return t
}

// CustomerSummary is a customer with its ledger and computed balance.
type CustomerSummary struct {
	models.Customer
	Totals
}

type CustomerRequest struct {
	Name           string          `json:"name" validate:"required"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Notes          string          `json:"notes"`
	Status         string          `json:"status"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

func (r *CustomerRequest) normalize() (models.CustomerStatus, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Notes = strings.TrimSpace(r.Notes)
	if err := validation.Struct(r); err != nil {
		return "", err
	}
	return parseStatus(r.Status)
}

func parseStatus(s string) (models.CustomerStatus, error) {
	st, ok := models.ParseCustomerStatus(s)
	if !ok {
		return "", apperr.Validation("status must be one of [active suspended_temp suspended_perm], got %q", s)
	}
	return st, nil
}

// ChargeRequest is a manual charge against a customer.
type ChargeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date"`
}

// PaymentRequest adds or edits a customer payment.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note"`
	Date   *time.Time      `json:"date"`
}

// CustomerService keeps the deferred-payment ledger of customers.
type CustomerService struct {
	gw  store.Gateway
	log *zap.Logger
	now func() time.Time
}

func NewCustomerService(gw store.Gateway, log *zap.Logger) *CustomerService {
	return &CustomerService{gw: gw, log: log, now: time.Now}
}

// ListFull returns every customer with invoices, payments and totals.
func (s *CustomerService) ListFull(ctx context.Context) ([]CustomerSummary, error) {
	customers, err := s.gw.ListCustomers(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerSummary, 0, len(customers))
	for _, c := range customers {
		out = append(out, summarize(c))
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*CustomerSummary, error) {
	c, err := s.gw.CustomerByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	sum := summarize(*c)
	return &sum, nil
}

// summarize keeps both ledger collections as arrays in JSON, even when empty.
func summarize(c models.Customer) CustomerSummary {
	if c.Invoices == nil {
		c.Invoices = []models.CustomerInvoice{}
	}
	if c.Payments == nil {
		c.Payments = []models.CustomerPayment{}
	}
	return CustomerSummary{Customer: c, Totals: CalculateTotals(c)}
}

// Create stores a new customer. A positive opening balance becomes its first charge.
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (uint, error) {
	status, err := req.normalize()
	if err != nil {
		return 0, err
	}
	now := s.now().UTC()
	c := models.Customer{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
		Status:    status,
		CreatedAt: now,
	}
	err = s.gw.Transaction(ctx, func(repo store.Repository) error {
		if err := repo.SaveCustomer(ctx, &c); err != nil {
			return err
		}
		return s.openingBalance(ctx, repo, c.ID, req.OpeningBalance, descOpeningBalance, now)
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("customer created", zap.Uint("customer_id", c.ID), zap.String("opening_balance", req.OpeningBalance.String()))
	return c.ID, nil
}

// Update overwrites the customer's details. A positive opening balance is
// added as a new charge on every call; earlier charges stay.
func (s *CustomerService) Update(ctx context.Context, id uint, req CustomerRequest) error {
	status, err := req.normalize()
	if err != nil {
		return err
	}
	err = s.gw.Transaction(ctx, func(repo store.Repository) error {
		c, err := repo.CustomerByID(ctx, id, false)
		if err != nil {
			return err
		}
		c.Name = req.Name
		c.Phone = req.Phone
		c.Address = req.Address
		c.Notes = req.Notes
		c.Status = status
		if err := repo.SaveCustomer(ctx, c); err != nil {
			return err
		}
		return s.openingBalance(ctx, repo, c.ID, req.OpeningBalance, descOpeningBalanceOnEdit, s.now().UTC())
	})
	if err != nil {
		return err
	}
	s.log.Info("customer updated", zap.Uint("customer_id", id))
	return nil
}

func (s *CustomerService) openingBalance(ctx context.Context, repo store.Repository, customerID uint, amount decimal.Decimal, desc string, at time.Time) error {
	if !amount.IsPositive() {
		return nil
	}
	return repo.SaveCustomerInvoice(ctx, &models.CustomerInvoice{
		CustomerID:  customerID,
		InvoiceDate: at,
		Description: desc,
		Amount:      amount,
	})
}

// SetStatus changes the account status. Blank means active.
func (s *CustomerService) SetStatus(ctx context.Context, id uint, status string) (models.CustomerStatus, error) {
	c, err := s.gw.CustomerByID(ctx, id, false)
	if err != nil {
		return "", err
	}
	st, err := parseStatus(status)
	if err != nil {
		return "", err
	}
	c.Status = st
	if err := s.gw.SaveCustomer(ctx, c); err != nil {
		return "", err
	}
	s.log.Info("customer status changed", zap.Uint("customer_id", id), zap.String("status", string(st)))
	return st, nil
}

// Delete removes a settled customer with its ledger. A customer who still
// owes money cannot be deleted; zero or negative balances can.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	err := s.gw.Transaction(ctx, func(repo store.Repository) error {
		c, err := repo.CustomerByID(ctx, id, true)
		if err != nil {
			return err
		}
		if CalculateTotals(*c).Remaining.IsPositive() {
			return apperr.Conflict("cannot delete while balance remains")
		}
		return repo.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("customer deleted", zap.Uint("customer_id", id))
	return nil
}

// AddInvoice records a manual charge and returns its id.
func (s *CustomerService) AddInvoice(ctx context.Context, customerID uint, req ChargeRequest) (uint, error) {
	if _, err := s.gw.CustomerByID(ctx, customerID, false); err != nil {
		return 0, err
	}
	if !req.Amount.IsPositive() {
		return 0, apperr.Validation("amount must be greater than 0")
	}
	inv := models.CustomerInvoice{
		CustomerID:  customerID,
		InvoiceDate: s.now().UTC(),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
	}
	if inv.Description == "" {
		inv.Description = descManualAdjustment
	}
	if req.Date != nil {
		inv.InvoiceDate = req.Date.UTC()
	}
	if err := s.gw.SaveCustomerInvoice(ctx, &inv); err != nil {
		return 0, err
	}
	s.log.Info("customer charged", zap.Uint("customer_id", customerID), zap.String("amount", inv.Amount.String()))
	return inv.ID, nil
}

func (req *PaymentRequest) check() (models.PaymentMethod, error) {
	if req == nil {
		return "", apperr.Validation("payment data is required")
	}
	if !req.Amount.IsPositive() {
		return "", apperr.Validation("amount must be greater than 0")
	}
	method, ok := models.ParsePaymentMethod(req.Method)
	if !ok {
		return "", apperr.Validation("method must be one of [cash card transfer], got %q", req.Method)
	}
	return method, nil
}

// AddPayment records a payment. A missing date means now.
func (s *CustomerService) AddPayment(ctx context.Context, customerID uint, req *PaymentRequest) (*models.CustomerPayment, error) {
	method, err := req.check()
	if err != nil {
		return nil, err
	}
	if _, err := s.gw.CustomerByID(ctx, customerID, false); err != nil {
		return nil, err
	}
	p := models.CustomerPayment{
		CustomerID:  customerID,
		PaymentDate: s.now().UTC(),
		Amount:      req.Amount,
		Method:      method,
		Note:        strings.TrimSpace(req.Note),
	}
	if req.Date != nil {
		p.PaymentDate = req.Date.UTC()
	}
	if err := s.gw.SavePayment(ctx, &p); err != nil {
		return nil, err
	}
	s.log.Info("payment added", zap.Uint("customer_id", customerID), zap.Uint("payment_id", p.ID), zap.String("amount", p.Amount.String()))
	return &p, nil
}

// EditPayment overwrites amount, method and note. A missing date keeps the stored one.
func (s *CustomerService) EditPayment(ctx context.Context, paymentID uint, req *PaymentRequest) (*models.CustomerPayment, error) {
	method, err := req.check()
	if err != nil {
		return nil, err
	}
	p, err := s.gw.PaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	p.Amount = req.Amount
	p.Method = method
	p.Note = strings.TrimSpace(req.Note)
	if req.Date != nil {
		p.PaymentDate = req.Date.UTC()
	}
	if err := s.gw.SavePayment(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("payment edited", zap.Uint("payment_id", p.ID))
	return p, nil
}

// DeletePayment removes a payment even if the customer's balance goes back up.
func (s *CustomerService) DeletePayment(ctx context.Context, paymentID uint) error {
	if err := s.gw.DeletePayment(ctx, paymentID); err != nil {
		return err
	}
	s.log.Info("payment deleted", zap.Uint("payment_id", paymentID))
	return nil
}
