package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/metrics"
	"pedidos-mostrador/models"
)

// PDFContentType is the MIME type of the printable shift summary
const PDFContentType = "application/pdf"

// BatchHolder is the caller's slot holding the last settlement batch
type BatchHolder interface {
	BatchSlot
	Batch() (*models.SettlementBatch, error)
	ConsumeBatch(token string) bool
}

// PDFRenderer prints a batch summary
type PDFRenderer interface {
	GeneratePDF(ctx context.Context, batch *models.SettlementBatch) ([]byte, error)
}

// ExportService hands out the artifacts of the last shift close
type ExportService struct {
	reports  *ReportService
	pdf      PDFRenderer
	archiver ReportArchiver // nil when no archive is configured
	metrics  *metrics.Metrics
}

// NewExportService creates a new ExportService. archiver may be nil.
func NewExportService(reports *ReportService, pdf PDFRenderer, archiver ReportArchiver, m *metrics.Metrics) *ExportService {
	return &ExportService{reports: reports, pdf: pdf, archiver: archiver, metrics: m}
}

// DownloadReport renders the held batch as a spreadsheet and then removes it from holder,
// so the same batch cannot be downloaded twice. A configured archive gets a copy first;
// archive failures are logged and do not block the download.
func (s *ExportService) DownloadReport(ctx context.Context, holder BatchHolder) (*Report, error) {
	log := logger.FromContext(ctx)

	batch, err := holder.Batch()
	if err != nil {
		return nil, err
	}

	report, err := s.reports.Render(batch)
	if err != nil {
		log.Error("❌ DownloadReport: Error rendering report", zap.String("batch_token", batch.Token), zap.Error(err))
		return nil, err
	}

	if s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, report); err != nil {
			log.Warn("⚠️ DownloadReport: Archive upload failed", zap.String("file", report.Filename), zap.Error(err))
		}
	}

	holder.ConsumeBatch(batch.Token)
	s.metrics.RecordReport("xlsx")
	log.Info("✅ DownloadReport: Report generated", zap.String("file", report.Filename), zap.Int("bytes", len(report.Data)))
	return report, nil
}

// SummaryPDF prints the held batch without consuming it
func (s *ExportService) SummaryPDF(ctx context.Context, holder BatchHolder) (*Report, error) {
	batch, err := holder.Batch()
	if err != nil {
		return nil, err
	}

	data, err := s.pdf.GeneratePDF(ctx, batch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReport("pdf")
	return &Report{
		Filename:    fmt.Sprintf("Cierre_Turno_%s_%s.pdf", batch.ShortToken(), batch.Date),
		ContentType: PDFContentType,
		Data:        data,
	}, nil
}

// ListArchived lists the archived reports, empty when no archive is configured
func (s *ExportService) ListArchived(ctx context.Context) ([]models.ArchivedReport, error) {
	if s.archiver == nil {
		return []models.ArchivedReport{}, nil
	}
	return s.archiver.ListReports(ctx)
}
