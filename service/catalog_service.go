package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
	"pedidos-mostrador/repository"
)

// CatalogService handles catalog maintenance
type CatalogService struct {
	repository repository.ProductRepositoryInterface
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.ProductRepositoryInterface) *CatalogService {
	return &CatalogService{repository: repo}
}

// List returns the whole catalog
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.repository.List(ctx)
}

// Get returns one product
func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.repository.GetByID(ctx, id)
}

// Create validates req and adds a product to the catalog
func (s *CatalogService) Create(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	name, price, err := parseProductRequest(req)
	if err != nil {
		logger.FromContext(ctx).Warn("⚠️ CreateProduct: Invalid request", zap.Error(err))
		return nil, err
	}
	return s.repository.Create(ctx, name, price)
}

// Update validates req and overwrites the product's name and price.
// Orders already placed keep their frozen subtotals.
func (s *CatalogService) Update(ctx context.Context, id int64, req models.ProductRequest) (*models.Product, error) {
	name, price, err := parseProductRequest(req)
	if err != nil {
		logger.FromContext(ctx).Warn("⚠️ UpdateProduct: Invalid request", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}
	return s.repository.Update(ctx, id, name, price)
}

// Delete removes a product. Lines referencing it are left in place and
// the orders owning them get flagged as having orphaned products.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	_, err := s.repository.Delete(ctx, id)
	return err
}

func parseProductRequest(req models.ProductRequest) (string, decimal.Decimal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", decimal.Zero, models.NewValidationError(models.ReasonEmptyName, "product name is required")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return "", decimal.Zero, models.NewValidationError(models.ReasonInvalidPrice, "price must be a number")
	}
	if price.IsNegative() {
		return "", decimal.Zero, models.NewValidationError(models.ReasonInvalidPrice, "price must not be negative")
	}

	return name, price.Round(2), nil
}
