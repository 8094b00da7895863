package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pedidos-mostrador/models"
)

func name(s string) *string { return &s }

// two orders: 10.00 over two lines and 5.50 over one line
func sampleBatch() *models.SettlementBatch {
	created := time.Date(2026, 10, 14, 3, 30, 0, 0, time.UTC) // 22:30 of the 13th in Bogota
	return &models.SettlementBatch{
		Token:    "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0",
		Date:     "2026-10-14",
		ClosedAt: fixedNow,
		Orders: []models.OrderView{
			models.NewOrderView(
				models.Order{ID: 1, CreatedAt: created, Status: models.OrderStatusCompleted, Total: money("10.00")},
				[]models.OrderLineView{
					{OrderLine: models.OrderLine{ID: 1, OrderID: 1, ProductID: 1, Quantity: 2, Subtotal: money("4.00")}, ProductName: name("Empanada")},
					{OrderLine: models.OrderLine{ID: 2, OrderID: 1, ProductID: 2, Quantity: 3, Subtotal: money("6.00")}},
				},
			),
			models.NewOrderView(
				models.Order{ID: 2, CreatedAt: fixedNow, Status: models.OrderStatusCompleted, Total: money("5.50")},
				[]models.OrderLineView{
					{OrderLine: models.OrderLine{ID: 3, OrderID: 2, ProductID: 1, Quantity: 1, Subtotal: money("5.50")}, ProductName: name("Café")},
				},
			),
		},
	}
}

func openReport(t *testing.T, r *Report) *excelize.File {
	f, err := excelize.OpenReader(bytes.NewReader(r.Data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func raw(t *testing.T, f *excelize.File, cell string) string {
	v, err := f.GetCellValue(reportSheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestReportService_Render(t *testing.T) {
	report, err := NewReportService(bogota).Render(sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, "Cierre_Turno_0f1e2d3c_2026-10-14.xlsx", report.Filename)
	assert.Equal(t, ReportContentType, report.ContentType)

	f := openReport(t, report)
	assert.Equal(t, []string{reportSheet}, f.GetSheetList())

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		assert.Equal(t, h, raw(t, f, cell))
	}

	rows, err := f.GetRows(reportSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 5) // header, three lines, total

	assert.Equal(t, "1", raw(t, f, "A2"))
	assert.Equal(t, "Empanada", raw(t, f, "C2"))
	assert.Equal(t, "2", raw(t, f, "D2"))
	assert.Equal(t, "4", raw(t, f, "E2"))
	assert.Equal(t, "10", raw(t, f, "F2"))

	assert.Equal(t, orphanedProductName, raw(t, f, "C3"))
	assert.Equal(t, "10", raw(t, f, "F3"), "order total repeats per line")

	assert.Equal(t, "2", raw(t, f, "A4"))
	assert.Equal(t, "5.5", raw(t, f, "F4"))

	assert.Equal(t, "", raw(t, f, "A5"))
	assert.Equal(t, totalLabel, raw(t, f, "E5"))
	assert.Equal(t, "15.5", raw(t, f, "F5"), "each order total counted once")
}

func TestReportService_DatesUseShopWallClock(t *testing.T) {
	report, err := NewReportService(bogota).Render(sampleBatch())
	require.NoError(t, err)
	f := openReport(t, report)

	// the first order was placed late on the 13th at the shop
	serial := raw(t, f, "B2")
	require.NotEmpty(t, serial)
	assert.True(t, strings.HasPrefix(serial, "46308."), serial)
}

func TestReportService_Formatting(t *testing.T) {
	report, err := NewReportService(bogota).Render(sampleBatch())
	require.NoError(t, err)
	f := openReport(t, report)

	for col, want := range reportColumnWidths {
		got, err := f.GetColWidth(reportSheet, col)
		require.NoError(t, err)
		assert.Equal(t, want, got, col)
	}

	header, err := f.GetCellStyle(reportSheet, "A1")
	require.NoError(t, err)
	moneyStyle, err := f.GetCellStyle(reportSheet, "E2")
	require.NoError(t, err)
	totalStyle, err := f.GetCellStyle(reportSheet, "F5")
	require.NoError(t, err)
	dateStyle, err := f.GetCellStyle(reportSheet, "B3")
	require.NoError(t, err)

	assert.NotZero(t, header)
	assert.Equal(t, moneyStyle, totalStyle)
	assert.NotEqual(t, moneyStyle, dateStyle)

	style, err := f.GetStyle(moneyStyle)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	assert.True(t, style.Alignment.WrapText)
}

func TestReportService_NumberFormats(t *testing.T) {
	report, err := NewReportService(bogota).Render(sampleBatch())
	require.NoError(t, err)
	f := openReport(t, report)

	styleOf := func(cell string) *excelize.Style {
		id, err := f.GetCellStyle(reportSheet, cell)
		require.NoError(t, err)
		style, err := f.GetStyle(id)
		require.NoError(t, err)
		return style
	}

	date := styleOf("B2")
	require.NotNil(t, date.CustomNumFmt, "B2")
	assert.Equal(t, "DD/MM/YYYY", *date.CustomNumFmt)

	for _, cell := range []string{"E2", "F2", "E4", "F4", "F5"} {
		money := styleOf(cell)
		require.NotNil(t, money.CustomNumFmt, cell)
		assert.Equal(t, `"$"#,##0.00`, *money.CustomNumFmt, cell)
	}

	for _, cell := range []string{"A2", "B2", "C2", "E5", "F5"} {
		style := styleOf(cell)
		require.NotNil(t, style.Alignment, cell)
		assert.Equal(t, "center", style.Alignment.Horizontal, cell)
		assert.Equal(t, "center", style.Alignment.Vertical, cell)
		assert.True(t, style.Alignment.WrapText, cell)
	}

	formatted, err := f.GetCellValue(reportSheet, "F5")
	require.NoError(t, err)
	assert.Equal(t, "$15.50", formatted)
}

func TestReportService_EmptyBatch(t *testing.T) {
	batch := &models.SettlementBatch{Token: "abcdef0123", Date: "2026-10-14"}
	report, err := NewReportService(bogota).Render(batch)
	require.NoError(t, err)

	f := openReport(t, report)
	assert.Equal(t, totalLabel, raw(t, f, "E2"))
	assert.Equal(t, "0", raw(t, f, "F2"))
}
