package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-mostrador/db"
	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
)

// ProductRepository handles database operations for the catalog
type ProductRepository struct {
	db *db.DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(conn *db.DB) *ProductRepository {
	return &ProductRepository{db: conn}
}

// Ensure ProductRepository implements ProductRepositoryInterface
var _ ProductRepositoryInterface = (*ProductRepository)(nil)

// List returns every product ordered by id
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return listProducts(ctx, r.db)
}

func listProducts(ctx context.Context, q querier) ([]models.Product, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetByID returns one product
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.ReasonProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	return &p, nil
}

// Create inserts a product and returns it with its new id
func (r *ProductRepository) Create(ctx context.Context, name string, price decimal.Decimal) (*models.Product, error) {
	p := models.Product{Name: name, Price: price}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id`,
		name, price).Scan(&p.ID)
	if err != nil {
		logger.FromContext(ctx).Error("❌ CreateProduct: Error inserting product", zap.Error(err))
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	logger.FromContext(ctx).Info("✅ CreateProduct: Product created",
		zap.Int64("product_id", p.ID), zap.String("name", name), zap.String("price", price.StringFixed(2)))
	return &p, nil
}

// Update overwrites the name and price of a product.
// Existing order lines keep the subtotal frozen when they were written.
func (r *ProductRepository) Update(ctx context.Context, id int64, name string, price decimal.Decimal) (*models.Product, error) {
	var p models.Product
	err := r.db.QueryRowContext(ctx,
		`UPDATE products SET name = $1, price = $2 WHERE id = $3 RETURNING id, name, price`,
		name, price, id).Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewNotFoundError(models.ReasonProductNotFound, id)
	}
	if err != nil {
		logger.FromContext(ctx).Error("❌ UpdateProduct: Error updating product", zap.Int64("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	logger.FromContext(ctx).Info("✅ UpdateProduct: Product updated",
		zap.Int64("product_id", id), zap.String("price", p.Price.StringFixed(2)))
	return &p, nil
}

// Delete removes a product without looking at the orders that reference it.
// It returns the number of deleted rows, zero for an unknown id.
func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.FromContext(ctx).Error("❌ DeleteProduct: Error deleting product", zap.Int64("product_id", id), zap.Error(err))
		return 0, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted rows: %w", err)
	}
	logger.FromContext(ctx).Info("🗑️ DeleteProduct: Product deleted", zap.Int64("product_id", id), zap.Int64("rows", n))
	return n, nil
}
