package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"enel-smeta/models"
)

const pdfMimeType = "application/pdf"

// DriveService archives generated quotes in a Google Drive folder
type DriveService struct {
	client   *drive.Service
	folderID string
	log      zerolog.Logger
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath, folderID string, log zerolog.Logger) (*DriveService, error) {
	return NewDriveServiceWithOptions(ctx, folderID, log,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveFileScope),
	)
}

// NewDriveServiceWithOptions creates a DriveService with explicit client options
func NewDriveServiceWithOptions(ctx context.Context, folderID string, log zerolog.Logger, clientOpts ...option.ClientOption) (*DriveService, error) {
	if folderID == "" {
		return nil, fmt.Errorf("%w: archive folder id is empty", ErrInvalidInput)
	}

	client, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{client: client, folderID: folderID, log: log}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// UploadPDF stores a PDF in the archive folder and returns its file id
func (ds *DriveService) UploadPDF(ctx context.Context, name string, data []byte) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: pdfMimeType,
		Parents:  []string{ds.folderID},
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		SupportsAllDrives(true).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	ds.log.Info().Str("file_id", created.Id).Str("name", name).Msg("📁 Quote archived to Drive")
	return created.Id, nil
}

// ListArchivedQuotes lists the PDFs in the archive folder, newest first
func (ds *DriveService) ListArchivedQuotes(ctx context.Context) ([]models.ArchivedQuote, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", ds.folderID, pdfMimeType)

	var quotes []models.ArchivedQuote
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			OrderBy("createdTime desc").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Fields("nextPageToken, files(id, name, createdTime, webViewLink)").
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range r.Files {
			quotes = append(quotes, models.ArchivedQuote{
				FileID:      f.Id,
				Name:        f.Name,
				CreatedTime: f.CreatedTime,
				WebViewLink: f.WebViewLink,
			})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return quotes, nil
}

// DownloadPDF returns the content of an archived quote
func (ds *DriveService) DownloadPDF(ctx context.Context, fileID string) ([]byte, error) {
	if fileID == "" {
		return nil, fmt.Errorf("%w: file id is empty", ErrInvalidInput)
	}

	resp, err := ds.client.Files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}
