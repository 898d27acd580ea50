package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestDriveServiceListArchivedQuotesPaginates(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"nextPageToken":"p2","files":[{"id":"1","name":"enel-spb.ru_2025-01-02.pdf","createdTime":"2025-01-02T10:00:00Z"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"files":[{"id":"2","name":"enel-spb.ru_2025-01-01.pdf","createdTime":"2025-01-01T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	ds, err := NewDriveServiceWithOptions(context.Background(), "folder-1", zerolog.Nop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	quotes, err := ds.ListArchivedQuotes(context.Background())
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.Equal(t, "1", quotes[0].FileID)
	assert.Equal(t, "enel-spb.ru_2025-01-01.pdf", quotes[1].Name)
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "'folder-1' in parents")
}

func TestNewDriveServiceRequiresFolder(t *testing.T) {
	_, err := NewDriveServiceWithOptions(context.Background(), "", zerolog.Nop(), option.WithoutAuthentication())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDriveServiceDownloadPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		assert.Contains(t, r.URL.Path, "/files/file-7")
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 archived"))
	}))
	defer srv.Close()

	ds, err := NewDriveServiceWithOptions(context.Background(), "folder-1", zerolog.Nop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	data, err := ds.DownloadPDF(context.Background(), "file-7")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 archived", string(data))

	_, err = ds.DownloadPDF(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
