package handlers

import (
	"net/http"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products *services.ProductService
	log      *zap.Logger
}

func NewProductHandler(products *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, log: log}
}

func (h *ProductHandler) Register(api *gin.RouterGroup) {
	api.GET("/products", h.List)
	api.GET("/products/low-stock", h.LowStock)
	api.GET("/products/scan/:barcode", h.Scan)
	api.GET("/products/:id", h.Get)
	api.POST("/products", h.Create)
	api.PUT("/products/:id", h.Update)
	api.DELETE("/products/:id", h.Delete)
}

// --- GET: List all products, ordered by id ---
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Products at or under their reorder threshold ---
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Barcode scanner lookup ---
func (h *ProductHandler) Scan(c *gin.Context) {
	p, err := h.products.Scan(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- POST: Add a new product ---
func (h *ProductHandler) Create(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product payload")
		return
	}
	p, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": p.ID})
}

// --- PUT: Replace every editable field ---
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid product payload")
		return
	}
	if _, err := h.products.Update(c.Request.Context(), id, in); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}

// --- DELETE: Remove a product ---
// Past cashier lines keep their own name and barcode copy.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
