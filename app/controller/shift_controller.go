package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
	"pedidos-mostrador/service"
	"pedidos-mostrador/utils"
)

// ShiftController handles HTTP requests for closing the shift and downloading its artifacts
type ShiftController struct {
	settlement *service.SettlementService
	export     *service.ExportService
}

// NewShiftController creates a new ShiftController
func NewShiftController(settlement *service.SettlementService, export *service.ExportService) *ShiftController {
	return &ShiftController{settlement: settlement, export: export}
}

// Preview handles GET /shift/close
// Example response:
// {
//   "date": "2026-10-14",
//   "orders": [{"id": 3, "status": "completed", "total": "6", ...}],
//   "total": "6"
// }
func (sc *ShiftController) Preview(c echo.Context) error {
	preview, err := sc.settlement.Preview(c.Request().Context())
	if err != nil {
		return respondError(c, "PreviewClose", err)
	}
	return c.JSON(http.StatusOK, preview)
}

// Confirm handles POST /shift/close/confirm.
// The resulting batch is kept in the caller's session until the report is downloaded.
func (sc *ShiftController) Confirm(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, "ConfirmClose", err)
	}

	outcome, err := sc.settlement.Confirm(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, "ConfirmClose", err)
	}

	batch := outcome.Batch
	total := batch.Total()
	notice := fmt.Sprintf("Shift closed: %d orders, total %s.", len(batch.Orders), utils.FormatMoney(total))
	if len(batch.Orders) == 0 {
		notice = "Shift closed: there were no completed orders to settle."
	}

	return c.JSON(http.StatusOK, models.ShiftCloseResponse{
		Token:         batch.Token,
		Date:          batch.Date,
		OrderCount:    len(batch.Orders),
		Total:         total.StringFixed(2),
		PurgedPending: outcome.PurgedPending,
		ReportURL:     "/shift/close/report",
		SummaryURL:    "/shift/close/summary",
		Notice:        notice,
	})
}

// Report handles GET /shift/close/report.
// The spreadsheet is served once; the batch leaves the session afterwards.
func (sc *ShiftController) Report(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, "DownloadReport", err)
	}

	report, err := sc.export.DownloadReport(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, "DownloadReport", err)
	}

	logger.FromContext(c.Request().Context()).Info("📤 DownloadReport: Serving report",
		zap.String("filename", report.Filename), zap.Int("bytes", len(report.Data)))
	return attachment(c, report)
}

// Summary handles GET /shift/close/summary, a printable PDF of the held batch
func (sc *ShiftController) Summary(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return respondError(c, "ShiftSummary", err)
	}

	pdf, err := sc.export.SummaryPDF(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, "ShiftSummary", err)
	}
	return attachment(c, pdf)
}

// ListReports handles GET /shift/reports, the spreadsheets archived to Drive
// Example response:
// {
//   "reports": [
//     {"id": "1AbC", "name": "Cierre_Turno_0f1e2d3c_2026-10-14.xlsx", "createdTime": "2026-10-14T23:01:02.000Z", "link": "https://drive.google.com/..."}
//   ]
// }
func (sc *ShiftController) ListReports(c echo.Context) error {
	reports, err := sc.export.ListArchived(c.Request().Context())
	if err != nil {
		return respondError(c, "ListReports", err)
	}
	return c.JSON(http.StatusOK, models.ArchivedReportListResponse{Reports: reports})
}

func attachment(c echo.Context, report *service.Report) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"%s\"", report.Filename))
	return c.Blob(http.StatusOK, report.ContentType, report.Data)
}
