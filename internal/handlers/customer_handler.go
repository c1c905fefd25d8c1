package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	customers *services.CustomerService
	log       *zap.Logger
}

func NewCustomerHandler(customers *services.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, log: log}
}

func (h *CustomerHandler) Register(api *gin.RouterGroup) {
	api.GET("/customers/full", h.ListFull)
	api.GET("/customers/:id", h.Get)
	api.POST("/customers", h.Create)
	api.PUT("/customers/:id", h.Update)
	api.POST("/customers/:id/status", h.SetStatus)
	api.DELETE("/customers/:id", h.Delete)
	api.POST("/customers/:id/invoices", h.AddInvoice)
	api.POST("/customers/:id/payments", h.AddPayment)
	api.PUT("/customer-payments/:id", h.EditPayment)
	api.DELETE("/customer-payments/:id", h.DeletePayment)
}

// paymentResponse is what the front-end expects after adding or editing a payment.
type paymentResponse struct {
	Success     bool                 `json:"success"`
	ID          uint                 `json:"id"`
	CustomerID  uint                 `json:"customerId"`
	Amount      decimal.Decimal      `json:"amount"`
	Method      models.PaymentMethod `json:"method"`
	Note        string               `json:"note"`
	PaymentDate time.Time            `json:"paymentDate"`
}

func newPaymentResponse(p *models.CustomerPayment) paymentResponse {
	return paymentResponse{
		Success:     true,
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		Method:      p.Method,
		Note:        p.Note,
		PaymentDate: p.PaymentDate,
	}
}

// --- GET: Customers with their ledger and balance ---
func (h *CustomerHandler) ListFull(c *gin.Context) {
	customers, err := h.customers.ListFull(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// --- POST: Open an account ---
func (h *CustomerHandler) Create(c *gin.Context) {
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid customer payload")
		return
	}
	id, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// --- PUT: Edit an account; a positive opening balance is charged again ---
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid customer payload")
		return
	}
	if err := h.customers.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

type statusRequest struct {
	Status string `json:"status"`
}

// --- POST: Activate / suspend ---
// The status comes from ?status= or, failing that, a JSON body.
func (h *CustomerHandler) SetStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	status, ok := c.GetQuery("status")
	if !ok {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "invalid status payload")
			return
		}
		status = req.Status
	}
	st, err := h.customers.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "status": st})
}

// --- DELETE: Close a settled account ---
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- POST: Manual charge ---
func (h *CustomerHandler) AddInvoice(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req services.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid invoice payload")
		return
	}
	invoiceID, err := h.customers.AddInvoice(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": invoiceID})
}

// bindPayment decodes a payment body; a missing body is a validation error.
func bindPayment(c *gin.Context) (*services.PaymentRequest, error) {
	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.Validation("payment data is required")
		}
		return nil, apperr.Validation("invalid payment payload: %v", err)
	}
	return &req, nil
}

// --- POST: Record a payment ---
func (h *CustomerHandler) AddPayment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	req, err := bindPayment(c)
	if err != nil {
		respondClientError(c, err)
		return
	}
	p, err := h.customers.AddPayment(c.Request.Context(), id, req)
	if err != nil {
		h.log.Warn("add payment failed", zap.Uint("customer_id", id), zap.Error(err))
		respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(p))
}

// --- PUT: Edit a payment ---
func (h *CustomerHandler) EditPayment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	req, err := bindPayment(c)
	if err != nil {
		respondClientError(c, err)
		return
	}
	p, err := h.customers.EditPayment(c.Request.Context(), id, req)
	if err != nil {
		h.log.Warn("edit payment failed", zap.Uint("payment_id", id), zap.Error(err))
		respondClientError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaymentResponse(p))
}

// --- DELETE: Remove a payment ---
func (h *CustomerHandler) DeletePayment(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.customers.DeletePayment(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
