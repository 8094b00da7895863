package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pedidos-mostrador/config"
	"pedidos-mostrador/db"
	"pedidos-mostrador/db/dbtest"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/models"
	"pedidos-mostrador/repository"
)

var bogota = mustLocation("America/Bogota")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// noon of 2026-10-14 at the shop
var fixedNow = time.Date(2026, 10, 14, 17, 0, 0, 0, time.UTC)

type harness struct {
	db         *db.DB
	clock      *Clock
	metrics    *metrics.Metrics
	catalog    *CatalogService
	orders     *OrderService
	settlement *SettlementService
}

func newHarness(t *testing.T) *harness {
	conn := dbtest.Open(t)
	clock := NewClock(bogota, func() time.Time { return fixedNow })
	m := metrics.New("test", prometheus.NewRegistry())

	products := repository.NewProductRepository(conn)
	orders := repository.NewOrderRepository(conn)
	settlements := repository.NewSettlementRepository(conn)

	return &harness{
		db:         conn,
		clock:      clock,
		metrics:    m,
		catalog:    NewCatalogService(products),
		orders:     NewOrderService(products, orders, clock, m),
		settlement: NewSettlementService(settlements, clock, m, config.SettlementConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}),
	}
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (h *harness) product(t *testing.T, name, price string) models.Product {
	p, err := h.catalog.Create(context.Background(), models.ProductRequest{Name: name, Price: price})
	require.NoError(t, err)
	return *p
}

func (h *harness) completedOrder(t *testing.T, sel models.Selections) models.OrderView {
	ctx := context.Background()
	o, err := h.orders.Place(ctx, sel)
	require.NoError(t, err)
	require.NoError(t, h.orders.Complete(ctx, o.ID))
	got, err := h.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	return *got
}
