package services

import (
	"context"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ProductInput carries every mutable product field. Dates arrive as text so
// both "2025-12-31" and RFC3339 values are accepted.
type ProductInput struct {
	Barcode          string           `json:"barcode"`
	Name             string           `json:"name"`
	SupplierName     string           `json:"supplierName"`
	Category         string           `json:"category"`
	Quantity         int              `json:"quantity"`
	MinQuantity      int              `json:"minQuantity"`
	SoldQuantity     int              `json:"soldQuantity"`
	PurchasePrice    decimal.Decimal  `json:"purchasePrice"`
	SalePrice        decimal.Decimal  `json:"salePrice"`
	IsVatIncluded    *bool            `json:"isVatIncluded"`
	ExpiryDate       *string          `json:"expiryDate"`
	OfferEnabled     bool             `json:"offerEnabled"`
	OfferName        string           `json:"offerName"`
	OfferPrice       *decimal.Decimal `json:"offerPrice"`
	OfferVatIncluded bool             `json:"offerVatIncluded"`
	OfferStart       *string          `json:"offerStart"`
	OfferEnd         *string          `json:"offerEnd"`
}

// apply overwrites every mutable field of p.
func (in ProductInput) apply(p *models.Product) error {
	expiry, err := optionalTime("expiryDate", in.ExpiryDate)
	if err != nil {
		return err
	}
	offerStart, err := optionalTime("offerStart", in.OfferStart)
	if err != nil {
		return err
	}
	offerEnd, err := optionalTime("offerEnd", in.OfferEnd)
	if err != nil {
		return err
	}

	p.Barcode = strings.TrimSpace(in.Barcode)
	p.Name = strings.TrimSpace(in.Name)
	p.SupplierName = strings.TrimSpace(in.SupplierName)
	p.Category = strings.TrimSpace(in.Category)
	p.Quantity = in.Quantity
	p.MinQuantity = in.MinQuantity
	p.SoldQuantity = in.SoldQuantity
	p.PurchasePrice = in.PurchasePrice
	p.SalePrice = in.SalePrice
	p.IsVatIncluded = in.IsVatIncluded == nil || *in.IsVatIncluded
	p.ExpiryDate = nil
	if expiry != nil {
		d := datatypes.Date(expiry.Truncate(24 * time.Hour))
		p.ExpiryDate = &d
	}
	p.OfferEnabled = in.OfferEnabled
	p.OfferName = strings.TrimSpace(in.OfferName)
	p.OfferPrice = in.OfferPrice
	p.OfferVatIncluded = in.OfferVatIncluded
	p.OfferStart = offerStart
	p.OfferEnd = offerEnd
	return nil
}

// ProductService is the inventory catalogue.
type ProductService struct {
	repo store.ProductRepository
	log  *zap.Logger
}

func NewProductService(repo store.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// LowStock lists products whose on-hand quantity is at or under the reorder threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	return s.repo.LowStockProducts(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.ProductByID(ctx, id)
}

func (s *ProductService) Scan(ctx context.Context, barcode string) (*models.Product, error) {
	return s.repo.ProductByBarcode(ctx, strings.TrimSpace(barcode))
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	var p models.Product
	if err := in.apply(&p); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, &p); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.Uint("id", p.ID), zap.String("barcode", p.Barcode))
	return &p, nil
}

// Update replaces every mutable field of an existing product.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.repo.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product updated", zap.Uint("id", p.ID))
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.Uint("id", id))
	return nil
}
