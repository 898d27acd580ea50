package service

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"

	"enel-smeta/models"
)

const (
	EngineFPDF = "fpdf"

	fpdfFontName = "QuoteFont"
	pxToPt       = 0.75
)

// FPDFRenderer draws the quote natively without a browser, same page geometry as the HTML page.
// It needs a TrueType font with Cyrillic glyphs.
type FPDFRenderer struct {
	font []byte
}

// NewFPDFRenderer creates a new FPDFRenderer
func NewFPDFRenderer(fontPath string) (*FPDFRenderer, error) {
	if fontPath == "" {
		return nil, fmt.Errorf("%w: font path is empty", ErrInvalidInput)
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("%w: font not found: %v", ErrInvalidInput, err)
	}
	return &FPDFRenderer{font: font}, nil
}

// Ensure FPDFRenderer implements PDFRenderer
var _ PDFRenderer = (*FPDFRenderer)(nil)

func (r *FPDFRenderer) Engine() string { return EngineFPDF }

func (r *FPDFRenderer) RenderPDF(ctx context.Context, quote models.Quote) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: PageWidthPx * pxToPt, Ht: PageHeightPx * pxToPt},
	})
	pdf.SetMargins(30, 30, 30)
	pdf.SetAutoPageBreak(true, 30)
	pdf.AddUTF8FontFromBytes(fpdfFontName, "", r.font)
	pdf.AddUTF8FontFromBytes(fpdfFontName, "B", r.font)
	pdf.AddPage()

	pdf.SetFont(fpdfFontName, "B", 34)
	pdf.CellFormat(300, 40, "ENEL", "", 0, "L", false, 0, "")
	companyBlock(pdf, quote.CompanyInfo)

	pdf.SetFont(fpdfFontName, "", 13)
	pdf.CellFormat(0, 16, "Строительство загородных домов", "", 1, "L", false, 0, "")
	pdf.Ln(60)

	widths := []float64{330, 80, 80, 120, 120}
	for _, section := range models.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		drawQuoteRow(pdf, []string{models.SectionTitle(section), "Кол-во", "Ед. изм.", "Цена", "Итого"}, widths, true)
		for _, item := range quote.Items(section) {
			drawQuoteRow(pdf, []string{item.Name, item.QuantityFormatted, item.Unit, item.PriceFormatted, item.TotalFormatted}, widths, false)
		}
		_, formatted := quote.SectionTotal(section)
		pdf.SetFont(fpdfFontName, "B", 12)
		pdf.CellFormat(0, 24, models.SectionTotalLabel(section)+": "+formatted, "", 1, "R", false, 0, "")
		pdf.Ln(10)
	}

	pdf.SetFont(fpdfFontName, "B", 16)
	pdf.CellFormat(0, 30, "Всего: "+quote.GrandTotalFormatted, "T", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: failed to write PDF: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func companyBlock(pdf *gofpdf.Fpdf, company models.CompanyInfo) {
	lines := []string{
		"Расчётный счёт: " + company.BankAccount,
		"Название банка: " + company.BankName,
		"БИК: " + company.BIK,
		"Корреспондентский счёт: " + company.CorrAccount,
		"Наименование: " + company.CompanyName,
		"ИНН: " + company.INN,
	}
	pdf.SetFont(fpdfFontName, "", 10)
	left, top, _, _ := pdf.GetMargins()
	x := pdf.GetX()
	y := pdf.GetY()
	for _, line := range lines {
		pdf.SetXY(x, y)
		pdf.CellFormat(0, 14, line, "", 0, "R", false, 0, "")
		y += 14
	}
	pdf.SetXY(left, top+40)
}

func drawQuoteRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fpdfFontName, style, 11)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 20, col, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}
