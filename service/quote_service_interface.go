package service

import (
	"context"

	"enel-smeta/models"
)

// Document formats
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatXLSX = "xlsx"
)

// Document is a rendered quote ready to be sent to a client
type Document struct {
	Data        []byte
	ContentType string
	FileName    string
	Quote       models.Quote
}

// QuoteServiceInterface defines the contract for building and rendering quotes
type QuoteServiceInterface interface {
	BuildQuote(ctx context.Context) (models.Quote, models.Grid, error)
	SheetData(ctx context.Context) (*models.SheetDataResponse, error)
	SheetTable(ctx context.Context) (*models.SheetTableResponse, error)
	RenderDocument(ctx context.Context, format string) (*Document, error)
	// ArchivePDF stores a rendered PDF when an archive is configured
	ArchivePDF(ctx context.Context, doc *Document)
	// Preview returns a JPEG screenshot for chat messages, nil when unavailable
	Preview(ctx context.Context, quote models.Quote) []byte
}
