package handlers

import (
	"net/http"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CashierHandler struct {
	cashier *services.CashierService
	log     *zap.Logger
}

func NewCashierHandler(cashier *services.CashierService, log *zap.Logger) *CashierHandler {
	return &CashierHandler{cashier: cashier, log: log}
}

func (h *CashierHandler) Register(api *gin.RouterGroup) {
	g := api.Group("/cashier/invoices")
	g.POST("", h.Create)
	g.GET("/report", h.Report)
	g.GET("/:id", h.Get)
	g.GET("/:id/items", h.Items)
	g.POST("/:id/return", h.Return)
	g.DELETE("/:id", h.Delete)
}

// --- POST: Checkout ---
func (h *CashierHandler) Create(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid invoice payload")
		return
	}
	id, err := h.cashier.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "invoiceId": id})
}

// --- POST: Return items from an invoice ---
func (h *CashierHandler) Return(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req services.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid return payload")
		return
	}
	total, err := h.cashier.ProcessReturn(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "invoiceId": id, "returnAmount": total})
}

// --- GET: Filtered invoice listing ---
func (h *CashierHandler) Report(c *gin.Context) {
	var q services.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid report filter")
		return
	}
	rows, err := h.cashier.Report(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if rows == nil {
		rows = []models.CashierInvoice{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *CashierHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	inv, err := h.cashier.Invoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *CashierHandler) Items(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	items, err := h.cashier.Items(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if items == nil {
		items = []models.CashierInvoiceItem{}
	}
	c.JSON(http.StatusOK, items)
}

// --- DELETE: Remove an invoice with its lines ---
func (h *CashierHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.cashier.DeleteInvoice(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
