package database

import (
	"context"
	"fmt"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
)

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.conn(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *Store) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.conn(ctx).
		Where("quantity <= min_quantity").
		Order("quantity, id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}
	return products, nil
}

func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, lookupErr(err, "product", id)
	}
	return &p, nil
}

func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).Where("barcode = ?", barcode).Order("id").First(&p).Error; err != nil {
		return nil, lookupErr(err, "product with barcode", barcode)
	}
	return &p, nil
}

func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	if err := s.conn(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}
