package service

import (
	"context"

	"enel-smeta/models"
)

// GridSource provides the raw price table a quote is built from
type GridSource interface {
	FetchGrid(ctx context.Context) (models.Grid, error)
}

// SheetsServiceInterface defines the contract for Google Sheets operations
type SheetsServiceInterface interface {
	GridSource
	// UpdateCells writes the mapped form fields into their cells, unknown fields are ignored.
	// It returns the fields that were written.
	UpdateCells(ctx context.Context, values models.FormValues) ([]string, error)
}
