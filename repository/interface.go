package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"pedidos-mostrador/models"
)

// ProductRepositoryInterface defines the contract for catalog repository operations
type ProductRepositoryInterface interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, name string, price decimal.Decimal) (*models.Product, error)
	Update(ctx context.Context, id int64, name string, price decimal.Decimal) (*models.Product, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// OrderRepositoryInterface defines the contract for order repository operations
type OrderRepositoryInterface interface {
	Create(ctx context.Context, businessDate string, createdAt time.Time, lines []models.NewOrderLine) (*models.OrderView, error)
	ReplaceLines(ctx context.Context, orderID int64, lines []models.NewOrderLine) (*models.OrderView, error)
	Complete(ctx context.Context, orderID int64) error
	GetByID(ctx context.Context, orderID int64) (*models.OrderView, error)
	ListPending(ctx context.Context) ([]models.OrderView, error)
	ListCompletedActive(ctx context.Context) ([]models.OrderView, error)
}

// SettlementRepositoryInterface defines the contract for shift close repository operations
type SettlementRepositoryInterface interface {
	Preview(ctx context.Context, businessDate string) (*models.ClosePreview, error)
	Confirm(ctx context.Context, token, businessDate string, closedAt time.Time) (*models.SettlementOutcome, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
