package service

import (
	"context"

	"enel-smeta/models"
)

// PDFRenderer turns a quote into a printable PDF document
type PDFRenderer interface {
	RenderPDF(ctx context.Context, quote models.Quote) ([]byte, error)
	// Engine names the renderer for logs and metrics
	Engine() string
}

// RenderServiceInterface defines the contract for the HTML based quote renderer
type RenderServiceInterface interface {
	PDFRenderer
	RenderHTML(quote models.Quote) ([]byte, error)
	RenderPNG(ctx context.Context, quote models.Quote) ([]byte, error)
}
