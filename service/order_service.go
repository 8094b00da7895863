package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/models"
	"pedidos-mostrador/repository"
)

// OrderService enforces the order lifecycle: pending orders are placed,
// edited while still pending, and completed exactly once.
type OrderService struct {
	products repository.ProductRepositoryInterface
	orders   repository.OrderRepositoryInterface
	clock    *Clock
	metrics  *metrics.Metrics
}

// NewOrderService creates a new OrderService
func NewOrderService(
	products repository.ProductRepositoryInterface,
	orders repository.OrderRepositoryInterface,
	clock *Clock,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{products: products, orders: orders, clock: clock, metrics: m}
}

// NewForm returns what the new order form needs.
// An empty catalog fails with ValidationError(NoProducts).
func (s *OrderService) NewForm(ctx context.Context) (*models.OrderNewForm, error) {
	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, errNoProducts()
	}
	return &models.OrderNewForm{Products: catalog}, nil
}

// Place creates a pending order from selections, snapshotting the current prices
func (s *OrderService) Place(ctx context.Context, selections models.Selections) (*models.OrderView, error) {
	order, err := s.place(ctx, selections)
	s.metrics.RecordOrderOperation("place", err)
	return order, err
}

func (s *OrderService) place(ctx context.Context, selections models.Selections) (*models.OrderView, error) {
	log := logger.FromContext(ctx)

	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := priceSelections(ctx, catalog, selections)
	if err != nil {
		log.Warn("⚠️ Place: Rejected selections", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	order, err := s.orders.Create(ctx, now.Format(models.BusinessDateLayout), now, lines)
	if err != nil {
		return nil, err
	}

	log.Info("✅ Place: Order placed", zap.Int64("order_id", order.ID), zap.String("total", order.Total.StringFixed(2)))
	return order, nil
}

// EditForm returns the catalog together with the quantities currently on the order
func (s *OrderService) EditForm(ctx context.Context, orderID int64) (*models.OrderEditForm, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if models.HasNotFoundReason(err, models.ReasonOrderNotFound) {
			return nil, models.NewNotFoundError(models.ReasonPendingOrderExpected, orderID)
		}
		return nil, err
	}
	if !order.IsEditable() {
		return nil, models.NewNotFoundError(models.ReasonPendingOrderExpected, orderID)
	}

	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}

	quantities := make(models.Selections, len(order.Lines))
	for _, l := range order.Lines {
		quantities[l.ProductID] += l.Quantity
	}

	return &models.OrderEditForm{
		Order:               *order,
		Products:            catalog,
		Quantities:          quantities,
		HasOrphanedProducts: order.HasOrphanedProducts,
	}, nil
}

// Edit replaces every line of a pending order with the ones derived from selections
// and overwrites its total. Lines of deleted products are dropped by the edit.
func (s *OrderService) Edit(ctx context.Context, orderID int64, selections models.Selections) (*models.OrderView, error) {
	order, err := s.edit(ctx, orderID, selections)
	s.metrics.RecordOrderOperation("edit", err)
	return order, err
}

func (s *OrderService) edit(ctx context.Context, orderID int64, selections models.Selections) (*models.OrderView, error) {
	log := logger.FromContext(ctx).With(zap.Int64("order_id", orderID))

	catalog, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := priceSelections(ctx, catalog, selections)
	if err != nil {
		log.Warn("⚠️ Edit: Rejected selections", zap.Error(err))
		return nil, err
	}

	order, err := s.orders.ReplaceLines(ctx, orderID, lines)
	if err != nil {
		return nil, err
	}

	log.Info("✅ Edit: Order edited", zap.String("total", order.Total.StringFixed(2)))
	return order, nil
}

// Complete marks a pending order as completed
func (s *OrderService) Complete(ctx context.Context, orderID int64) error {
	err := s.orders.Complete(ctx, orderID)
	s.metrics.RecordOrderOperation("complete", err)
	return err
}

// Get returns one order with its lines
func (s *OrderService) Get(ctx context.Context, orderID int64) (*models.OrderView, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListPending returns the pending orders
func (s *OrderService) ListPending(ctx context.Context) ([]models.OrderView, error) {
	return s.orders.ListPending(ctx)
}

// ListCompletedActive returns the completed orders not archived by a shift close
func (s *OrderService) ListCompletedActive(ctx context.Context) ([]models.OrderView, error) {
	return s.orders.ListCompletedActive(ctx)
}

// priceSelections turns selections into priced lines, in catalog order.
// Quantities of zero or less are skipped and ids missing from the catalog are ignored.
func priceSelections(ctx context.Context, catalog []models.Product, selections models.Selections) ([]models.NewOrderLine, error) {
	if len(catalog) == 0 {
		return nil, errNoProducts()
	}

	known := make(map[int64]struct{}, len(catalog))
	lines := make([]models.NewOrderLine, 0, len(selections))
	for _, p := range catalog {
		known[p.ID] = struct{}{}
		qty := selections[p.ID]
		if qty <= 0 {
			continue
		}
		lines = append(lines, models.NewOrderLine{
			ProductID: p.ID,
			Quantity:  qty,
			Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}

	var unknown []int64
	for id, qty := range selections {
		if _, ok := known[id]; !ok && qty > 0 {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
		logger.FromContext(ctx).Warn("⚠️ Selections reference products missing from the catalog", zap.Int64s("product_ids", unknown))
	}

	if len(lines) == 0 {
		return nil, models.NewValidationError(models.ReasonEmptySelection, "select at least one product")
	}
	return lines, nil
}

func errNoProducts() error {
	return models.NewValidationError(models.ReasonNoProducts, "add products to the catalog before creating an order")
}
