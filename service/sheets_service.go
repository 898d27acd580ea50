package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"enel-smeta/models"
	"enel-smeta/utils"
)

const (
	valueRenderUnformatted = "UNFORMATTED_VALUE"
	valueInputRaw          = "RAW"
)

// SheetsOptions configures which spreadsheet and cells the service works with
type SheetsOptions struct {
	SpreadsheetID string
	TableRange    string
	SheetName     string
	CellMapping   map[string]string
}

// SheetsService handles Google Sheets API operations
type SheetsService struct {
	client *sheets.Service
	opts   SheetsOptions
	log    zerolog.Logger
}

// NewSheetsService creates a new SheetsService.
// credentialsPath should be the path to the Service Account JSON file.
func NewSheetsService(ctx context.Context, credentialsPath string, opts SheetsOptions, log zerolog.Logger) (*SheetsService, error) {
	return NewSheetsServiceWithOptions(ctx, opts, log,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
}

// NewSheetsServiceWithOptions creates a SheetsService with explicit client options
func NewSheetsServiceWithOptions(ctx context.Context, opts SheetsOptions, log zerolog.Logger, clientOpts ...option.ClientOption) (*SheetsService, error) {
	if opts.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is empty", ErrInvalidInput)
	}
	if opts.SheetName == "" {
		opts.SheetName = "Sheet1"
	}
	if opts.TableRange == "" {
		opts.TableRange = opts.SheetName + "!B1:F50"
	}
	if len(opts.CellMapping) == 0 {
		opts.CellMapping = utils.DefaultCellMapping
	}

	client, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsService{client: client, opts: opts, log: log}, nil
}

// Ensure SheetsService implements SheetsServiceInterface
var _ SheetsServiceInterface = (*SheetsService)(nil)

// FetchGrid reads the price table with unformatted values, numbers arrive as float64
func (s *SheetsService) FetchGrid(ctx context.Context) (models.Grid, error) {
	resp, err := s.client.Spreadsheets.Values.
		Get(s.opts.SpreadsheetID, s.opts.TableRange).
		ValueRenderOption(valueRenderUnformatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrSheetUnavailable, s.opts.TableRange, err)
	}

	s.log.Debug().Int("rows", len(resp.Values)).Str("range", s.opts.TableRange).Msg("📊 Grid received from Google Sheets")
	return models.Grid(resp.Values), nil
}

// UpdateCells writes every mapped field in parallel, one RAW update per cell
func (s *SheetsService) UpdateCells(ctx context.Context, values models.FormValues) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)

	var written []string
	for _, field := range utils.MappedFields(s.opts.CellMapping) {
		value, ok := values[field]
		if !ok {
			continue
		}
		cellRange := utils.SheetCellRange(s.opts.SheetName, s.opts.CellMapping[field])
		written = append(written, field)

		g.Go(func() error {
			body := &sheets.ValueRange{Values: [][]interface{}{{value}}}
			_, err := s.client.Spreadsheets.Values.
				Update(s.opts.SpreadsheetID, cellRange, body).
				ValueInputOption(valueInputRaw).
				Context(gctx).
				Do()
			if err != nil {
				return fmt.Errorf("%w: failed to update %s: %v", ErrSheetUnavailable, cellRange, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info().Strs("fields", written).Msg("✅ Sheet cells updated")
	return written, nil
}
