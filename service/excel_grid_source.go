package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"enel-smeta/models"
)

// ExcelGridSource reads the price table from a local workbook exported from the spreadsheet.
// It implements GridSource for offline use.
type ExcelGridSource struct {
	path      string
	sheet     string
	cellRange string
}

// NewExcelGridSource creates a grid source over tableRange ("Sheet1!B1:F50" or "B1:F50" with sheet)
func NewExcelGridSource(path, sheet, tableRange string) *ExcelGridSource {
	if i := strings.LastIndex(tableRange, "!"); i >= 0 {
		if sheet == "" {
			sheet = strings.Trim(tableRange[:i], "'")
		}
		tableRange = tableRange[i+1:]
	}
	if tableRange == "" {
		tableRange = "B1:F50"
	}
	return &ExcelGridSource{path: path, sheet: sheet, cellRange: tableRange}
}

// Ensure ExcelGridSource implements GridSource
var _ GridSource = (*ExcelGridSource)(nil)

// FetchGrid loads the configured range. Numeric cells become float64 and empty cells nil,
// trailing empty cells of a row are dropped like the Sheets API does.
func (s *ExcelGridSource) FetchGrid(ctx context.Context) (models.Grid, error) {
	startCol, startRow, endCol, endRow, err := parseCellRange(s.cellRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook %s: %v", ErrSheetUnavailable, s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", ErrSheetUnavailable, sheet, s.path)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrSheetUnavailable, sheet, err)
	}

	var grid models.Grid
	for r := startRow; r <= endRow; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var raw []string
		if r-1 < len(rows) {
			raw = rows[r-1]
		}
		row := make([]interface{}, 0, endCol-startCol+1)
		for c := startCol; c <= endCol; c++ {
			var value string
			if c-1 < len(raw) {
				value = raw[c-1]
			}
			row = append(row, rawCellValue(value))
		}
		grid = append(grid, trimTrailingNil(row))
	}

	return trimTrailingEmptyRows(grid), nil
}

func parseCellRange(cellRange string) (startCol, startRow, endCol, endRow int, err error) {
	parts := strings.Split(cellRange, ":")
	if len(parts) != 2 {
		return 0, 0, 0, 0, fmt.Errorf("range %q must look like B1:F50", cellRange)
	}
	if startCol, startRow, err = excelize.CellNameToCoordinates(parts[0]); err != nil {
		return 0, 0, 0, 0, err
	}
	if endCol, endRow, err = excelize.CellNameToCoordinates(parts[1]); err != nil {
		return 0, 0, 0, 0, err
	}
	if endCol < startCol || endRow < startRow {
		return 0, 0, 0, 0, fmt.Errorf("range %q is inverted", cellRange)
	}
	return startCol, startRow, endCol, endRow, nil
}

func rawCellValue(value string) interface{} {
	if value == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch value {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return value
}

func trimTrailingNil(row []interface{}) []interface{} {
	for len(row) > 0 && row[len(row)-1] == nil {
		row = row[:len(row)-1]
	}
	return row
}

func trimTrailingEmptyRows(grid models.Grid) models.Grid {
	for len(grid) > 0 && len(grid[len(grid)-1]) == 0 {
		grid = grid[:len(grid)-1]
	}
	return grid
}
