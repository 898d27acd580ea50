package service

import (
	"context"

	"enel-smeta/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	UploadPDF(ctx context.Context, name string, data []byte) (string, error)
	ListArchivedQuotes(ctx context.Context) ([]models.ArchivedQuote, error)
	DownloadPDF(ctx context.Context, fileID string) ([]byte, error)
}
