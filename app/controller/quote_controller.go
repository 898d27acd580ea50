package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"enel-smeta/service"
)

const msgDownloadFailed = "Ошибка скачивания"

// QuoteController handles HTTP requests for rendered quotes
type QuoteController struct {
	quotes           service.QuoteServiceInterface
	notifier         ActivityNotifier
	clientInfo       *service.ClientInfoResolver
	notifyOnDownload bool
	log              zerolog.Logger
}

// NewQuoteController creates a new QuoteController, notifier may be nil
func NewQuoteController(
	quotes service.QuoteServiceInterface,
	notifier ActivityNotifier,
	clientInfo *service.ClientInfoResolver,
	notifyOnDownload bool,
	log zerolog.Logger,
) *QuoteController {
	return &QuoteController{
		quotes:           quotes,
		notifier:         notifier,
		clientInfo:       clientInfo,
		notifyOnDownload: notifyOnDownload,
		log:              log,
	}
}

// DownloadFile handles GET /download-file
// Builds the current quote and returns it as enel-spb.ru_YYYY-MM-DD.pdf
func (c *QuoteController) DownloadFile(ctx *gin.Context) {
	c.log.Info().Msg("📥 Download request received")

	doc, err := c.quotes.RenderDocument(ctx.Request.Context(), service.FormatPDF)
	if err != nil {
		handleError(ctx, c.log, msgDownloadFailed, err)
		return
	}

	c.quotes.ArchivePDF(ctx.Request.Context(), doc)
	if c.notifyOnDownload && c.notifier != nil {
		// subscribers are notified even when the client goes away
		c.notifyDownload(context.WithoutCancel(ctx.Request.Context()), ctx.Request, doc)
	}

	writeAttachment(ctx, doc)
	c.log.Info().Str("file", doc.FileName).Int("bytes", len(doc.Data)).Msg("✅ Quote downloaded")
}

// GetQuote handles GET /quote?format=html|pdf|png|xlsx
// HTML is served inline, other formats as attachments
func (c *QuoteController) GetQuote(ctx *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(ctx.DefaultQuery("format", service.FormatHTML)))

	doc, err := c.quotes.RenderDocument(ctx.Request.Context(), format)
	if err != nil {
		handleError(ctx, c.log, msgDownloadFailed, err)
		return
	}

	if format == service.FormatHTML {
		ctx.Data(http.StatusOK, doc.ContentType, doc.Data)
		return
	}
	writeAttachment(ctx, doc)
}

func (c *QuoteController) notifyDownload(ctx context.Context, r *http.Request, doc *service.Document) {
	c.notifier.Notify(ctx, service.Notification{
		Client:  c.clientInfo.Resolve(r),
		PDF:     doc.Data,
		Preview: c.quotes.Preview(ctx, doc.Quote),
	})
}

func writeAttachment(ctx *gin.Context, doc *service.Document) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	ctx.Data(http.StatusOK, doc.ContentType, doc.Data)
}
