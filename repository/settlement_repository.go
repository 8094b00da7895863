package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-mostrador/db"
	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
)

// SettlementRepository handles the database side of closing a shift
type SettlementRepository struct {
	db *db.DB
}

// NewSettlementRepository creates a new SettlementRepository
func NewSettlementRepository(conn *db.DB) *SettlementRepository {
	return &SettlementRepository{db: conn}
}

// Ensure SettlementRepository implements SettlementRepositoryInterface
var _ SettlementRepositoryInterface = (*SettlementRepository)(nil)

// Preview lists the completed, unarchived orders of businessDate and their total.
// Nothing is written.
func (r *SettlementRepository) Preview(ctx context.Context, businessDate string) (*models.ClosePreview, error) {
	orders, err := queryOrders(ctx, r.db, `status = $1 AND archived = FALSE AND business_date = $2`,
		models.OrderStatusCompleted, businessDate)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return &models.ClosePreview{Date: businessDate, Orders: orders, Total: total}, nil
}

// Confirm closes the shift in one transaction:
//  1. claims every completed order of businessDate that has no batch yet by stamping it with token
//  2. reads the claimed orders back with their lines
//  3. archives the claimed orders
//  4. deletes every pending order of any date together with its lines
//
// Orders already claimed by an earlier close are never claimed again.
// Serialization failures come back wrapped in models.ErrSettlementConflict.
func (r *SettlementRepository) Confirm(ctx context.Context, token, businessDate string, closedAt time.Time) (*models.SettlementOutcome, error) {
	log := logger.FromContext(ctx).With(zap.String("batch_token", token), zap.String("business_date", businessDate))
	log.Info("🔒 ConfirmClose: Closing shift")

	tx, err := r.db.BeginTx(ctx, r.db.SettlementTxOptions())
	if err != nil {
		log.Error("❌ ConfirmClose: Error starting transaction", zap.Error(err))
		return nil, txError("failed to start transaction", err)
	}
	defer tx.Rollback()

	// Claim
	res, err := tx.ExecContext(ctx, `
		UPDATE orders SET batch_ref = $1
		WHERE status = $2 AND batch_ref IS NULL AND business_date = $3
	`, token, models.OrderStatusCompleted, businessDate)
	if err != nil {
		log.Error("❌ ConfirmClose: Error claiming orders", zap.Error(err))
		return nil, txError("failed to claim orders", err)
	}
	claimed, err := res.RowsAffected()
	if err != nil {
		return nil, txError("failed to read claimed rows", err)
	}

	// Snapshot
	views, err := loadOrderViews(ctx, tx, `batch_ref = $1`, token)
	if err != nil {
		log.Error("❌ ConfirmClose: Error reading claimed orders", zap.Error(err))
		return nil, txError("failed to read claimed orders", err)
	}

	// Archive
	if _, err := tx.ExecContext(ctx, `UPDATE orders SET archived = TRUE WHERE batch_ref = $1`, token); err != nil {
		log.Error("❌ ConfirmClose: Error archiving orders", zap.Error(err))
		return nil, txError("failed to archive orders", err)
	}
	for i := range views {
		views[i].Archived = true
	}

	// Purge every pending order, whatever its date
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM order_lines
		WHERE order_id IN (SELECT id FROM orders WHERE status = $1)
	`, models.OrderStatusPending); err != nil {
		log.Error("❌ ConfirmClose: Error purging pending lines", zap.Error(err))
		return nil, txError("failed to purge pending order lines", err)
	}
	res, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE status = $1`, models.OrderStatusPending)
	if err != nil {
		log.Error("❌ ConfirmClose: Error purging pending orders", zap.Error(err))
		return nil, txError("failed to purge pending orders", err)
	}
	purged, err := res.RowsAffected()
	if err != nil {
		return nil, txError("failed to read purged rows", err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("❌ ConfirmClose: Error committing transaction", zap.Error(err))
		return nil, txError("failed to commit transaction", err)
	}

	log.Info("✅ ConfirmClose: Shift closed",
		zap.Int64("claimed", claimed), zap.Int64("purged_pending", purged))

	return &models.SettlementOutcome{
		Batch: &models.SettlementBatch{
			Token:    token,
			Date:     businessDate,
			ClosedAt: closedAt,
			Orders:   views,
		},
		PurgedPending: purged,
	}, nil
}

// txError wraps err, marking concurrency aborts as retryable settlement conflicts
func txError(msg string, err error) error {
	if db.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %s: %v", models.ErrSettlementConflict, msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
