package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"enel-smeta/models"
	"enel-smeta/service"
)

// Error messages shown to the widget
const (
	msgUpdateFailed = "Ошибка обновления"
	msgTableFailed  = "Не могу получить таблицу"
	msgDataFailed   = "Ошибка получения данных"
)

// SheetController handles HTTP requests that read and write the price spreadsheet
type SheetController struct {
	sheets     service.SheetsServiceInterface
	quotes     service.QuoteServiceInterface
	notifier   ActivityNotifier
	clientInfo *service.ClientInfoResolver
	log        zerolog.Logger
}

// NewSheetController creates a new SheetController, notifier may be nil
func NewSheetController(
	sheets service.SheetsServiceInterface,
	quotes service.QuoteServiceInterface,
	notifier ActivityNotifier,
	clientInfo *service.ClientInfoResolver,
	log zerolog.Logger,
) *SheetController {
	return &SheetController{
		sheets:     sheets,
		quotes:     quotes,
		notifier:   notifier,
		clientInfo: clientInfo,
		log:        log,
	}
}

// UpdateSheet handles POST /update-sheet
// Example request:
// POST /update-sheet
// {"value1": 12, "value2": 8, "value3": 0.2}
// Example response:
// {"success": true}
func (c *SheetController) UpdateSheet(ctx *gin.Context) {
	var form models.FormValues
	if err := ctx.ShouldBindJSON(&form); err != nil {
		handleError(ctx, c.log, msgUpdateFailed, fmt.Errorf("%w: %v", service.ErrInvalidInput, err))
		return
	}

	written, err := c.sheets.UpdateCells(ctx.Request.Context(), form)
	if err != nil {
		handleError(ctx, c.log, msgUpdateFailed, err)
		return
	}
	c.log.Info().Strs("fields", written).Msg("📝 Calculator input written to sheet")

	if c.notifier != nil {
		c.notifier.Notify(context.WithoutCancel(ctx.Request.Context()), service.Notification{
			Client: c.clientInfo.Resolve(ctx.Request),
			Form:   form,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSheetTable handles GET /get-sheet-table
// Example response:
// {"headers": ["Наименование", "Кол-во", ...], "rows": [["Брус", 10, "шт", 1500, 15000], ...]}
func (c *SheetController) GetSheetTable(ctx *gin.Context) {
	table, err := c.quotes.SheetTable(ctx.Request.Context())
	if err != nil {
		handleError(ctx, c.log, msgTableFailed, err)
		return
	}
	ctx.JSON(http.StatusOK, table)
}

// GetSheetData handles GET /get-sheet-data
// Example response:
// {"success": true, "values": {...quote...}, "displayLines": [{"text": "Брус - 10 - шт - 1500 - 15000"}], "totalPrice": 15204}
func (c *SheetController) GetSheetData(ctx *gin.Context) {
	data, err := c.quotes.SheetData(ctx.Request.Context())
	if err != nil {
		handleError(ctx, c.log, msgDataFailed, err)
		return
	}
	ctx.JSON(http.StatusOK, data)
}
