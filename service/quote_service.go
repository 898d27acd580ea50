package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"enel-smeta/metrics"
	"enel-smeta/models"
	"enel-smeta/pricing"
	"enel-smeta/utils"
)

// QuoteService fetches the price table, builds quotes and renders them
// Implements QuoteServiceInterface
type QuoteService struct {
	source  GridSource
	company models.CompanyInfo
	pdf     PDFRenderer
	pages   RenderServiceInterface
	archive DriveServiceInterface
	metrics *metrics.Recorder
	log     zerolog.Logger
	now     func() time.Time
}

// QuoteServiceDeps groups the collaborators of QuoteService, Pages and Archive may be nil
type QuoteServiceDeps struct {
	Source  GridSource
	Company models.CompanyInfo
	PDF     PDFRenderer
	Pages   RenderServiceInterface
	Archive DriveServiceInterface
	Metrics *metrics.Recorder
	Log     zerolog.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(deps QuoteServiceDeps) *QuoteService {
	pdf := deps.PDF
	if pdf == nil && deps.Pages != nil {
		pdf = deps.Pages
	}
	return &QuoteService{
		source:  deps.Source,
		company: deps.Company,
		pdf:     pdf,
		pages:   deps.Pages,
		archive: deps.Archive,
		metrics: deps.Metrics,
		log:     deps.Log,
		now:     time.Now,
	}
}

// Ensure QuoteService implements QuoteServiceInterface
var _ QuoteServiceInterface = (*QuoteService)(nil)

// BuildQuote fetches the grid and builds a fresh quote from it
func (s *QuoteService) BuildQuote(ctx context.Context) (models.Quote, models.Grid, error) {
	start := time.Now()

	grid, err := s.source.FetchGrid(ctx)
	if err != nil {
		return models.Quote{}, nil, err
	}

	quote := pricing.BuildQuote(grid, s.company)
	s.metrics.ObserveQuoteBuild(time.Since(start))

	if !quote.IsEmpty() && quote.GrandTotal == 0 {
		s.log.Warn().Msg("⚠️  Quote has line items but the grand total cell is empty or unparsable")
	}
	s.log.Debug().
		Int("materials", len(quote.Materials)).
		Int("consumables", len(quote.Consumables)).
		Int("equipment", len(quote.Equipment)).
		Int("labor", len(quote.Labor)).
		Int64("grand_total", quote.GrandTotal).
		Msg("🧮 Quote built")

	return quote, grid, nil
}

// SheetData returns the quote with a text line per grid row
func (s *QuoteService) SheetData(ctx context.Context) (*models.SheetDataResponse, error) {
	quote, grid, err := s.BuildQuote(ctx)
	if err != nil {
		return nil, err
	}
	return &models.SheetDataResponse{
		Success:      true,
		Values:       quote,
		DisplayLines: pricing.DisplayLines(grid),
		TotalPrice:   quote.GrandTotal,
	}, nil
}

// SheetTable returns the raw grid split into header and rows
func (s *QuoteService) SheetTable(ctx context.Context) (*models.SheetTableResponse, error) {
	grid, err := s.source.FetchGrid(ctx)
	if err != nil {
		return nil, err
	}
	headers := grid.Header()
	if headers == nil {
		headers = []interface{}{}
	}
	return &models.SheetTableResponse{Headers: headers, Rows: grid.Rows()}, nil
}

// RenderDocument builds the quote and renders it in format
func (s *QuoteService) RenderDocument(ctx context.Context, format string) (*Document, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	switch format {
	case FormatHTML, FormatPNG:
		if s.pages == nil {
			return nil, fmt.Errorf("%w: %s rendering is not configured", ErrInvalidInput, format)
		}
	case FormatPDF:
		if s.pdf == nil {
			return nil, fmt.Errorf("%w: pdf rendering is not configured", ErrInvalidInput)
		}
	case FormatXLSX:
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, format)
	}

	quote, _, err := s.BuildQuote(ctx)
	if err != nil {
		return nil, err
	}

	doc := &Document{Quote: quote, FileName: utils.DownloadFileName(s.now(), format)}
	switch format {
	case FormatHTML:
		doc.ContentType = "text/html; charset=utf-8"
		doc.Data, err = s.pages.RenderHTML(quote)
	case FormatPNG:
		doc.ContentType = "image/png"
		doc.Data, err = s.pages.RenderPNG(ctx, quote)
	case FormatPDF:
		doc.ContentType = "application/pdf"
		start := time.Now()
		doc.Data, err = s.pdf.RenderPDF(ctx, quote)
		if err == nil {
			s.metrics.ObservePDFRender(s.pdf.Engine(), time.Since(start))
		}
	case FormatXLSX:
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		doc.Data, err = ExportQuoteXLSX(quote)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ArchivePDF uploads the document to Drive, failures are only logged
func (s *QuoteService) ArchivePDF(ctx context.Context, doc *Document) {
	if s.archive == nil || doc == nil || len(doc.Data) == 0 {
		return
	}
	if _, err := s.archive.UploadPDF(ctx, doc.FileName, doc.Data); err != nil {
		s.log.Error().Err(err).Str("name", doc.FileName).Msg("❌ Failed to archive quote")
	}
}

// Preview renders a chat sized screenshot of the quote, nil when PNG rendering is unavailable
func (s *QuoteService) Preview(ctx context.Context, quote models.Quote) []byte {
	if s.pages == nil {
		return nil
	}
	png, err := s.pages.RenderPNG(ctx, quote)
	if err != nil {
		s.log.Warn().Err(err).Msg("⚠️  Preview rendering failed")
		return nil
	}
	preview, err := OptimizePreview(png)
	if err != nil {
		s.log.Warn().Err(err).Msg("⚠️  Preview optimization failed")
		return nil
	}
	return preview
}
