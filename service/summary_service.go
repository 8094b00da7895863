package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"pedidos-mostrador/logger"
	"pedidos-mostrador/models"
	"pedidos-mostrador/utils"
)

//go:embed templates/shift_summary.html
var shiftSummaryTemplate string

// SummaryService renders a settlement batch as a printable HTML page and PDF
type SummaryService struct {
	chromePath string
	loc        *time.Location
	tmpl       *template.Template
}

type summaryLine struct {
	Name     string
	Orphaned bool
	Quantity int
	Subtotal string
}

type summaryOrder struct {
	ID      int64
	Created string
	Total   string
	Lines   []summaryLine
}

type summaryData struct {
	Date       string
	ShortToken string
	ClosedAt   string
	Headers    []string
	Orders     []summaryOrder
	Total      string
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(chromePath string, loc *time.Location) *SummaryService {
	if loc == nil {
		loc = time.UTC
	}
	return &SummaryService{
		chromePath: chromePath,
		loc:        loc,
		tmpl:       template.Must(template.New("shift_summary").Parse(shiftSummaryTemplate)),
	}
}

// RenderHTML renders the shift summary HTML template
func (s *SummaryService) RenderHTML(batch *models.SettlementBatch) (string, error) {
	data := summaryData{
		Date:       batch.Date,
		ShortToken: batch.ShortToken(),
		ClosedAt:   batch.ClosedAt.In(s.loc).Format("02/01/2006 15:04"),
		Headers:    reportHeaders,
		Orders:     make([]summaryOrder, 0, len(batch.Orders)),
		Total:      utils.FormatMoney(batch.Total()),
	}

	for _, o := range batch.Orders {
		order := summaryOrder{
			ID:      o.ID,
			Created: o.CreatedAt.In(s.loc).Format("02/01/2006"),
			Total:   utils.FormatMoney(o.Total),
		}
		for _, l := range o.Lines {
			line := summaryLine{
				Name:     orphanedProductName,
				Orphaned: l.IsOrphaned(),
				Quantity: l.Quantity,
				Subtotal: utils.FormatMoney(l.Subtotal),
			}
			if l.ProductName != nil {
				line.Name = *l.ProductName
			}
			order.Lines = append(order.Lines, line)
		}
		data.Orders = append(data.Orders, order)
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the shift summary to PDF using chromedp
func (s *SummaryService) GeneratePDF(ctx context.Context, batch *models.SettlementBatch) ([]byte, error) {
	html, err := s.RenderHTML(batch)
	if err != nil {
		return nil, err
	}

	// Create context with timeout (30 seconds)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		logger.FromContext(ctx).Warn("⚠️ GeneratePDF: Chrome not found, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	logger.FromContext(ctx).Info("📄 GeneratePDF: Shift summary printed",
		zap.String("batch_token", batch.Token), zap.Int("bytes", len(pdfBuf)))
	return pdfBuf, nil
}
