package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pedidos-mostrador/db"
	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
)

// OrderRepository handles database operations for orders and their lines
type OrderRepository struct {
	db *db.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(conn *db.DB) *OrderRepository {
	return &OrderRepository{db: conn}
}

// Ensure OrderRepository implements OrderRepositoryInterface
var _ OrderRepositoryInterface = (*OrderRepository)(nil)

// Create inserts a pending order and its lines atomically.
// The order total is the sum of the line subtotals.
func (r *OrderRepository) Create(ctx context.Context, businessDate string, createdAt time.Time, lines []models.NewOrderLine) (*models.OrderView, error) {
	log := logger.FromContext(ctx)
	total := models.LinesTotal(lines)
	log.Info("📦 CreateOrder: Creating order", zap.Int("lines", len(lines)), zap.String("total", total.StringFixed(2)))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("❌ CreateOrder: Error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var orderID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (created_at, business_date, total, status, archived)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`, createdAt.UTC(), businessDate, total, models.OrderStatusPending).Scan(&orderID)
	if err != nil {
		log.Error("❌ CreateOrder: Error inserting order", zap.Error(err))
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertLines(ctx, tx, orderID, lines); err != nil {
		log.Error("❌ CreateOrder: Error inserting lines", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, err
	}

	views, err := loadOrderViews(ctx, tx, `id = $1`, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("❌ CreateOrder: Error committing transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("✅ CreateOrder: Order created", zap.Int64("order_id", orderID))
	return &views[0], nil
}

// ReplaceLines discards every line of a pending order and writes the given ones,
// overwriting the order total. Orders that are completed, archived or claimed by a
// shift close are rejected with NotFound(PendingOrderExpected).
func (r *OrderRepository) ReplaceLines(ctx context.Context, orderID int64, lines []models.NewOrderLine) (*models.OrderView, error) {
	log := logger.FromContext(ctx)
	total := models.LinesTotal(lines)
	log.Info("✏️ EditOrder: Replacing lines", zap.Int64("order_id", orderID), zap.Int("lines", len(lines)))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("❌ EditOrder: Error starting transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET total = $1
		WHERE id = $2 AND status = $3 AND archived = FALSE AND batch_ref IS NULL
	`, total, orderID, models.OrderStatusPending)
	if err != nil {
		log.Error("❌ EditOrder: Error updating total", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to update order total: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to read updated rows: %w", err)
	} else if n == 0 {
		log.Warn("❌ EditOrder: Order not found or not pending", zap.Int64("order_id", orderID))
		return nil, models.NewNotFoundError(models.ReasonPendingOrderExpected, orderID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		log.Error("❌ EditOrder: Error deleting lines", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to delete order lines: %w", err)
	}

	if err := insertLines(ctx, tx, orderID, lines); err != nil {
		log.Error("❌ EditOrder: Error inserting lines", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, err
	}

	views, err := loadOrderViews(ctx, tx, `id = $1`, orderID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("❌ EditOrder: Error committing transaction", zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info("✅ EditOrder: Order updated", zap.Int64("order_id", orderID), zap.String("total", total.StringFixed(2)))
	return &views[0], nil
}

// Complete moves a pending order to completed.
// An unknown id and an order that is not pending fail the same way.
func (r *OrderRepository) Complete(ctx context.Context, orderID int64) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		models.OrderStatusCompleted, orderID, models.OrderStatusPending)
	if err != nil {
		log.Error("❌ CompleteOrder: Error updating status", zap.Int64("order_id", orderID), zap.Error(err))
		return fmt.Errorf("failed to complete order %d: %w", orderID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read updated rows: %w", err)
	}
	if n == 0 {
		log.Warn("❌ CompleteOrder: Order not found or not pending", zap.Int64("order_id", orderID))
		return models.NewNotFoundError(models.ReasonPendingOrderExpected, orderID)
	}

	log.Info("✅ CompleteOrder: Order completed", zap.Int64("order_id", orderID))
	return nil
}

// GetByID returns one order with its lines, whatever its status
func (r *OrderRepository) GetByID(ctx context.Context, orderID int64) (*models.OrderView, error) {
	views, err := loadOrderViews(ctx, r.db, `id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError(models.ReasonOrderNotFound, orderID)
	}
	return &views[0], nil
}

// ListPending returns every pending order, oldest first
func (r *OrderRepository) ListPending(ctx context.Context) ([]models.OrderView, error) {
	return loadOrderViews(ctx, r.db, `status = $1`, models.OrderStatusPending)
}

// ListCompletedActive returns completed orders that no shift close has archived yet
func (r *OrderRepository) ListCompletedActive(ctx context.Context) ([]models.OrderView, error) {
	return loadOrderViews(ctx, r.db, `status = $1 AND archived = FALSE`, models.OrderStatusCompleted)
}
