package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"enel-smeta/metrics"
	"enel-smeta/models"
)

type staticGrid struct {
	grid models.Grid
	err  error
}

func (s staticGrid) FetchGrid(context.Context) (models.Grid, error) { return s.grid, s.err }

type fakePDF struct{ calls int }

func (f *fakePDF) RenderPDF(_ context.Context, q models.Quote) ([]byte, error) {
	f.calls++
	return []byte("%PDF " + q.GrandTotalFormatted), nil
}
func (f *fakePDF) Engine() string { return "fake" }

type fakeArchive struct {
	names []string
	err   error
}

func (f *fakeArchive) UploadPDF(_ context.Context, name string, _ []byte) (string, error) {
	f.names = append(f.names, name)
	return "id", f.err
}
func (f *fakeArchive) ListArchivedQuotes(context.Context) ([]models.ArchivedQuote, error) {
	return nil, nil
}
func (f *fakeArchive) DownloadPDF(context.Context, string) ([]byte, error) { return nil, nil }

var priceGrid = models.Grid{
	{"Наименование", "Кол-во", "Ед. изм.", "Цена", "Итого"},
	{"Брус", 10.0, "шт", 1500.0, 15000.0},
	{"Техника"},
	{"Кран", 1.0, "смена", 3000.0, 3000.0},
}

func newTestQuoteService(t *testing.T, source GridSource, pdf PDFRenderer, archive DriveServiceInterface) *QuoteService {
	t.Helper()
	pages, err := NewRenderService(RenderOptions{}, zerolog.Nop())
	require.NoError(t, err)
	svc := NewQuoteService(QuoteServiceDeps{
		Source:  source,
		Company: models.CompanyInfo{CompanyName: "ИП Тест"},
		PDF:     pdf,
		Pages:   pages,
		Archive: archive,
		Metrics: metrics.New(nil),
		Log:     zerolog.Nop(),
	})
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestQuoteServiceSheetData(t *testing.T) {
	svc := newTestQuoteService(t, staticGrid{grid: priceGrid}, &fakePDF{}, nil)

	data, err := svc.SheetData(context.Background())
	require.NoError(t, err)

	assert.True(t, data.Success)
	assert.Equal(t, "ИП Тест", data.Values.CompanyName)
	assert.Equal(t, int64(15000), data.Values.MaterialsTotal)
	assert.Equal(t, int64(3000), data.Values.EquipmentTotal)
	assert.Zero(t, data.TotalPrice)
	require.Len(t, data.DisplayLines, 4)
	assert.Equal(t, "Техника", data.DisplayLines[2].Text)
}

func TestQuoteServiceSheetTable(t *testing.T) {
	svc := newTestQuoteService(t, staticGrid{grid: priceGrid}, &fakePDF{}, nil)

	table, err := svc.SheetTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, priceGrid[0], table.Headers)
	assert.Len(t, table.Rows, 3)

	empty := newTestQuoteService(t, staticGrid{}, &fakePDF{}, nil)
	table, err = empty.SheetTable(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, table.Headers)
	assert.NotNil(t, table.Rows)
}

func TestQuoteServicePropagatesSourceErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestQuoteService(t, staticGrid{err: boom}, &fakePDF{}, nil)

	_, err := svc.SheetData(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = svc.RenderDocument(context.Background(), FormatPDF)
	assert.ErrorIs(t, err, boom)
}

func TestQuoteServiceRenderDocument(t *testing.T) {
	pdf := &fakePDF{}
	svc := newTestQuoteService(t, staticGrid{grid: priceGrid}, pdf, nil)
	ctx := context.Background()

	doc, err := svc.RenderDocument(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "enel-spb.ru_2025-06-01.pdf", doc.FileName)
	assert.Equal(t, 1, pdf.calls)

	doc, err = svc.RenderDocument(ctx, "HTML")
	require.NoError(t, err)
	assert.Equal(t, "enel-spb.ru_2025-06-01.html", doc.FileName)
	assert.True(t, bytes.Contains(doc.Data, []byte("Итого техника: 3")))

	doc, err = svc.RenderDocument(ctx, FormatXLSX)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.RenderDocument(ctx, "docx")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestQuoteServiceWithoutPagesRejectsHTML(t *testing.T) {
	svc := NewQuoteService(QuoteServiceDeps{Source: staticGrid{grid: priceGrid}, PDF: &fakePDF{}, Log: zerolog.Nop()})

	_, err := svc.RenderDocument(context.Background(), FormatPNG)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, svc.Preview(context.Background(), models.Quote{}))
}

func TestQuoteServiceArchivePDF(t *testing.T) {
	archive := &fakeArchive{err: errors.New("quota exceeded")}
	svc := newTestQuoteService(t, staticGrid{grid: priceGrid}, &fakePDF{}, archive)

	svc.ArchivePDF(context.Background(), &Document{FileName: "a.pdf", Data: []byte("%PDF")})
	svc.ArchivePDF(context.Background(), &Document{FileName: "empty.pdf"})

	assert.Equal(t, []string{"a.pdf"}, archive.names)
}
