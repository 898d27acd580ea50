package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"enel-smeta/service"
)

// AdminController exposes operational views of the notifier and the quote archive
type AdminController struct {
	notifier ActivityNotifier
	archive  service.DriveServiceInterface
	log      zerolog.Logger
}

// NewAdminController creates a new AdminController, both collaborators may be nil
func NewAdminController(notifier ActivityNotifier, archive service.DriveServiceInterface, log zerolog.Logger) *AdminController {
	return &AdminController{notifier: notifier, archive: archive, log: log}
}

// GetSubscribers handles GET /admin/subscribers
// Example response:
// {"count": 2, "chatIds": [123, 456]}
func (c *AdminController) GetSubscribers(ctx *gin.Context) {
	if c.notifier == nil {
		handleError(ctx, c.log, "Уведомления не настроены", service.ErrNotifierDisabled)
		return
	}
	ids := c.notifier.Subscribers()
	ctx.JSON(http.StatusOK, gin.H{"count": len(ids), "chatIds": ids})
}

// GetArchive handles GET /admin/archive
// Lists quote PDFs stored in the Drive archive folder
func (c *AdminController) GetArchive(ctx *gin.Context) {
	if c.archive == nil {
		ctx.JSON(http.StatusOK, gin.H{"count": 0, "files": []interface{}{}})
		return
	}
	files, err := c.archive.ListArchivedQuotes(ctx.Request.Context())
	if err != nil {
		handleError(ctx, c.log, "Не могу получить архив", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"count": len(files), "files": files})
}

// DownloadArchivedQuote handles GET /admin/archive/:id
// Returns a previously archived quote PDF
func (c *AdminController) DownloadArchivedQuote(ctx *gin.Context) {
	if c.archive == nil {
		handleError(ctx, c.log, "Архив не настроен", fmt.Errorf("%w: archive folder is not configured", service.ErrInvalidInput))
		return
	}
	id := ctx.Param("id")
	data, err := c.archive.DownloadPDF(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, c.log, msgDownloadFailed, err)
		return
	}
	writeAttachment(ctx, &service.Document{Data: data, ContentType: "application/pdf", FileName: id + ".pdf"})
}
