package service

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"pedidos-mostrador/models"
)

const (
	// ReportContentType is the MIME type of the shift report
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportSheet         = "Pedidos Completados"
	orphanedProductName = "(producto eliminado)"
	totalLabel          = "TOTAL GENERAL:"
	dateFormat          = "DD/MM/YYYY"
	moneyFormat         = `"$"#,##0.00`
)

var reportHeaders = []string{"Pedido Nro", "Fecha", "Producto", "Cantidad", "Subtotal", "Total Pedido"}

var reportColumnWidths = map[string]float64{
	"A": 12,
	"B": 12,
	"C": 25,
	"D": 12,
	"E": 12,
	"F": 15,
}

// Report is a rendered shift report ready to be downloaded
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders settlement batches as spreadsheets. It never touches the store.
type ReportService struct {
	loc *time.Location
}

// NewReportService creates a ReportService writing dates in loc
func NewReportService(loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{loc: loc}
}

// ReportFilename returns the suggested download name of the batch report
func ReportFilename(batch *models.SettlementBatch) string {
	return fmt.Sprintf("Cierre_Turno_%s_%s.xlsx", batch.ShortToken(), batch.Date)
}

type reportStyles struct {
	header, cell, date, money int
}

// Render writes one row per (order, line) followed by the general total row
func (s *ReportService) Render(batch *models.SettlementBatch) (*Report, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		return nil, err
	}

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(reportSheet, "A1", "F1", styles.header); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	row := 2
	for _, order := range batch.Orders {
		created := s.excelTime(order.CreatedAt)
		for _, l := range order.Lines {
			name := orphanedProductName
			if l.ProductName != nil {
				name = *l.ProductName
			}
			values := []any{order.ID, created, name, l.Quantity, l.Subtotal.InexactFloat64(), order.Total.InexactFloat64()}
			if err := s.writeRow(f, row, values, styles); err != nil {
				return nil, err
			}
			row++
		}
	}

	if err := s.writeTotal(f, row, batch, styles); err != nil {
		return nil, err
	}

	for col, width := range reportColumnWidths {
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &Report{
		Filename:    ReportFilename(batch),
		ContentType: ReportContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *ReportService) writeRow(f *excelize.File, row int, values []any, styles reportStyles) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	ranges := []struct {
		from, to string
		style    int
	}{
		{"A", "A", styles.cell},
		{"B", "B", styles.date},
		{"C", "D", styles.cell},
		{"E", "F", styles.money},
	}
	for _, r := range ranges {
		if err := f.SetCellStyle(reportSheet, fmt.Sprintf("%s%d", r.from, row), fmt.Sprintf("%s%d", r.to, row), r.style); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}
	return nil
}

// writeTotal writes the label in the subtotal column and the sum of the order totals next to it
func (s *ReportService) writeTotal(f *excelize.File, row int, batch *models.SettlementBatch, styles reportStyles) error {
	label := fmt.Sprintf("E%d", row)
	value := fmt.Sprintf("F%d", row)

	if err := f.SetCellValue(reportSheet, label, totalLabel); err != nil {
		return fmt.Errorf("failed to write total label: %w", err)
	}
	if err := f.SetCellValue(reportSheet, value, batch.Total().InexactFloat64()); err != nil {
		return fmt.Errorf("failed to write total: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, label, label, styles.cell); err != nil {
		return fmt.Errorf("failed to style total label: %w", err)
	}
	if err := f.SetCellStyle(reportSheet, value, value, styles.money); err != nil {
		return fmt.Errorf("failed to style total: %w", err)
	}
	return nil
}

// excelTime returns t as the shop's wall clock. Spreadsheet dates carry no timezone.
func (s *ReportService) excelTime(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	date, money := dateFormat, moneyFormat

	var styles reportStyles
	var err error
	if styles.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: center}); err != nil {
		return styles, fmt.Errorf("failed to create header style: %w", err)
	}
	if styles.cell, err = f.NewStyle(&excelize.Style{Alignment: center}); err != nil {
		return styles, fmt.Errorf("failed to create cell style: %w", err)
	}
	if styles.date, err = f.NewStyle(&excelize.Style{Alignment: center, CustomNumFmt: &date}); err != nil {
		return styles, fmt.Errorf("failed to create date style: %w", err)
	}
	if styles.money, err = f.NewStyle(&excelize.Style{Alignment: center, CustomNumFmt: &money}); err != nil {
		return styles, fmt.Errorf("failed to create money style: %w", err)
	}
	return styles, nil
}
