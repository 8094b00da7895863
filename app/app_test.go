package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pedidos-mostrador/config"
	"pedidos-mostrador/db"
	"pedidos-mostrador/models"
	"pedidos-mostrador/service"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	cfg := &config.Config{
		ServiceName: "test",
		DB:          config.DBConfig{Driver: db.DriverSQLite, SQLitePath: ":memory:"},
		Server:      config.ServerConfig{Port: "0", Env: "test"},
		Metrics:     config.MetricsConfig{Prefix: "test"},
		Shop:        config.ShopConfig{Location: loc},
		Session:     config.SessionConfig{CookieName: "pos_session", TTL: time.Hour, MaxEntries: 16},
		Settlement:  config.SettlementConfig{MaxRetries: 2, RetryBackoff: time.Millisecond},
	}

	a, err := Initialize(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.DB.Close() })
	return a
}

type call struct {
	method      string
	path        string
	body        string
	contentType string
	cookies     []*http.Cookie
}

func (a *App) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.body != "" {
		ct := c.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestApp_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, call{method: http.MethodGet, path: "/ping"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = a.do(t, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["db_status"])

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))

	rec = a.do(t, call{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_http_requests_total{method="GET",path="/ping",status="200"}`)
}

func TestApp_ReadOnlyShiftRoutesOpenNoSession(t *testing.T) {
	a := newTestApp(t)

	for i := 0; i < 3; i++ {
		for _, path := range []string{"/shift/close", "/shift/reports"} {
			rec := a.do(t, call{method: http.MethodGet, path: path})
			require.Equal(t, http.StatusOK, rec.Code, path)
			assert.Empty(t, rec.Result().Cookies(), path)
		}
	}
	assert.Equal(t, 0, a.Sessions.Len())

	rec := a.do(t, call{method: http.MethodPost, path: "/shift/close/confirm"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "pos_session", rec.Result().Cookies()[0].Name)
	assert.Equal(t, 1, a.Sessions.Len())

	rec = a.do(t, call{method: http.MethodGet, path: "/shift/close/report", cookies: rec.Result().Cookies()})
	assert.Equal(t, http.StatusOK, rec.Code, "the batch is found through the cookie")
	assert.Equal(t, 1, a.Sessions.Len())
}

func TestApp_EmptyCatalogRedirectsToProducts(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, call{method: http.MethodGet, path: "/orders/new"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[models.ErrorResponse](t, rec)
	assert.Equal(t, string(models.ReasonNoProducts), body.Reason)
	assert.Equal(t, "/products", body.Redirect)

	rec = a.do(t, call{method: http.MethodPost, path: "/orders", body: `{"selections":{"1":2}}`})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "/products", decode[models.ErrorResponse](t, rec).Redirect)
}

func TestApp_CatalogValidation(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, call{method: http.MethodPost, path: "/products", body: `{"name":"   ","price":"1.00"}`})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(models.ReasonEmptyName), decode[models.ErrorResponse](t, rec).Reason)

	rec = a.do(t, call{method: http.MethodPost, path: "/products", body: `{"name":"Café","price":"-1"}`})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(models.ReasonInvalidPrice), decode[models.ErrorResponse](t, rec).Reason)

	form := url.Values{"name": {"Café"}, "price": {"1.20"}}
	rec = a.do(t, call{method: http.MethodPost, path: "/products", body: form.Encode(), contentType: "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.ProductActionResponse](t, rec)
	assert.Equal(t, "Product Café added at $1.20.", created.Notice)

	rec = a.do(t, call{method: http.MethodGet, path: "/products/999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(t, call{method: http.MethodGet, path: "/products/abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, call{method: http.MethodDelete, path: "/products/999"})
	assert.Equal(t, http.StatusOK, rec.Code, "delete is unconditional")
}

func TestApp_OrderLifecycleAndShiftClose(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(t, call{method: http.MethodPost, path: "/products", body: `{"name":"Empanada","price":"2.50"}`})
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decode[models.ProductActionResponse](t, rec).Product
	require.NotNil(t, product)

	// placed with JSON, completed, then the shift is closed
	rec = a.do(t, call{method: http.MethodPost, path: "/orders", body: fmt.Sprintf(`{"selections":{"%d":3}}`, product.ID)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[models.OrderActionResponse](t, rec)
	require.NotNil(t, placed.Order)
	assert.Equal(t, fmt.Sprintf("Order #%d placed, total $7.50.", placed.Order.ID), placed.Notice)
	orderPath := fmt.Sprintf("/orders/%d", placed.Order.ID)

	// placed with form fields, stays pending
	form := url.Values{fmt.Sprintf("qty_%d", product.ID): {"1"}, "qty_999": {"4"}, "note": {"x"}}
	rec = a.do(t, call{method: http.MethodPost, path: "/orders", body: form.Encode(), contentType: "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	form = url.Values{fmt.Sprintf("qty_%d", product.ID): {"0"}}
	rec = a.do(t, call{method: http.MethodPost, path: "/orders", body: form.Encode(), contentType: "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(models.ReasonEmptySelection), decode[models.ErrorResponse](t, rec).Reason)

	rec = a.do(t, call{method: http.MethodGet, path: orderPath + "/edit"})
	require.Equal(t, http.StatusOK, rec.Code)
	editForm := decode[models.OrderEditForm](t, rec)
	assert.Equal(t, 3, editForm.Quantities[product.ID])

	rec = a.do(t, call{method: http.MethodPut, path: orderPath, body: fmt.Sprintf(`{"selections":{"%d":2}}`, product.ID)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[models.OrderActionResponse](t, rec).Notice, "total $5.00.")

	rec = a.do(t, call{method: http.MethodPost, path: orderPath + "/complete"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fmt.Sprintf("Order #%d marked completed.", placed.Order.ID), decode[models.OrderActionResponse](t, rec).Notice)

	rec = a.do(t, call{method: http.MethodPost, path: orderPath + "/complete"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(models.ReasonPendingOrderExpected), decode[models.ErrorResponse](t, rec).Reason)

	rec = a.do(t, call{method: http.MethodPut, path: orderPath, body: fmt.Sprintf(`{"selections":{"%d":1}}`, product.ID)})
	assert.Equal(t, http.StatusNotFound, rec.Code, "completed orders are not editable")

	rec = a.do(t, call{method: http.MethodGet, path: "/orders/completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[models.OrderListResponse](t, rec).Orders, 1)

	rec = a.do(t, call{method: http.MethodGet, path: "/shift/close"})
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[models.ClosePreview](t, rec)
	assert.Len(t, preview.Orders, 1)
	assert.Equal(t, "5.00", preview.Total.StringFixed(2))

	// a fresh caller has nothing to download yet
	rec = a.do(t, call{method: http.MethodGet, path: "/shift/close/report"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, call{method: http.MethodPost, path: "/shift/close/confirm"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closed := decode[models.ShiftCloseResponse](t, rec)
	assert.Equal(t, 1, closed.OrderCount)
	assert.Equal(t, "5.00", closed.Total)
	assert.Equal(t, int64(1), closed.PurgedPending)
	assert.Equal(t, "Shift closed: 1 orders, total $5.00.", closed.Notice)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	rec = a.do(t, call{method: http.MethodGet, path: "/orders/pending"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.OrderListResponse](t, rec).Orders)
	rec = a.do(t, call{method: http.MethodGet, path: "/orders/completed"})
	assert.Empty(t, decode[models.OrderListResponse](t, rec).Orders, "settled orders are archived")

	rec = a.do(t, call{method: http.MethodGet, path: "/shift/close/report", cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.ReportContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Cierre_Turno_"+closed.Token[:8]+"_"+closed.Date+".xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec = a.do(t, call{method: http.MethodGet, path: "/shift/close/report", cookies: cookies})
	assert.Equal(t, http.StatusConflict, rec.Code, "the report downloads once")

	rec = a.do(t, call{method: http.MethodGet, path: "/shift/reports", cookies: cookies})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.ArchivedReportListResponse](t, rec).Reports)
}
