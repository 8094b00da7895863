package repository

import (
	"context"
	"database/sql"
	"fmt"

	"pedidos-mostrador/models"
)

const orderColumns = `id, created_at, business_date, total, status, archived, batch_ref`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (models.Order, error) {
	var o models.Order
	var batchRef sql.NullString
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.BusinessDate, &o.Total, &o.Status, &o.Archived, &batchRef); err != nil {
		return o, err
	}
	if batchRef.Valid {
		o.BatchRef = &batchRef.String
	}
	return o, nil
}

// queryOrders returns the orders matching where, ordered by id
func queryOrders(ctx context.Context, q querier, where string, args ...any) ([]models.Order, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// loadOrderViews returns the orders matching where together with their lines.
// Lines are LEFT JOINed to the catalog so that deleted products come back with a nil name.
// Each result set is drained before the next query runs, a single SQLite connection allows one at a time.
func loadOrderViews(ctx context.Context, q querier, where string, args ...any) ([]models.OrderView, error) {
	orders, err := queryOrders(ctx, q, where, args...)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []models.OrderView{}, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT l.id, l.order_id, l.product_id, l.quantity, l.subtotal, p.name
		FROM order_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.order_id IN (SELECT id FROM orders WHERE `+where+`)
		ORDER BY l.order_id, l.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	linesByOrder := make(map[int64][]models.OrderLineView, len(orders))
	for rows.Next() {
		var l models.OrderLineView
		var name sql.NullString
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.Subtotal, &name); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		if name.Valid {
			l.ProductName = &name.String
		}
		linesByOrder[l.OrderID] = append(linesByOrder[l.OrderID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order lines: %w", err)
	}

	views := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, models.NewOrderView(o, linesByOrder[o.ID]))
	}
	return views, nil
}

// insertLines writes priced lines for an order
func insertLines(ctx context.Context, q querier, orderID int64, lines []models.NewOrderLine) error {
	for _, l := range lines {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, quantity, subtotal) VALUES ($1, $2, $3, $4)`,
			orderID, l.ProductID, l.Quantity, l.Subtotal); err != nil {
			return fmt.Errorf("failed to insert line for product %d: %w", l.ProductID, err)
		}
	}
	return nil
}
