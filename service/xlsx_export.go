package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"enel-smeta/models"
)

const quoteSheetName = "Смета"

// ExportQuoteXLSX writes the quote as a formatted workbook with one table per section
func ExportQuoteXLSX(quote models.Quote) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", quoteSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	money, err := file.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(quoteSheetName, cell, value)
	}
	style := func(fromCol, toCol, row, styleID int) {
		from, _ := excelize.CoordinatesToCellName(fromCol, row)
		to, _ := excelize.CoordinatesToCellName(toCol, row)
		_ = file.SetCellStyle(quoteSheetName, from, to, styleID)
	}

	company := [][2]string{
		{"Расчётный счёт", quote.BankAccount},
		{"Название банка", quote.BankName},
		{"БИК", quote.BIK},
		{"Корреспондентский счёт", quote.CorrAccount},
		{"Наименование", quote.CompanyName},
		{"ИНН", quote.INN},
	}
	row := 1
	for _, line := range company {
		set(1, row, line[0])
		set(2, row, line[1])
		row++
	}
	row++

	for _, section := range models.Sections {
		headers := []string{models.SectionTitle(section), "Кол-во", "Ед. изм.", "Цена", "Итого"}
		for i, header := range headers {
			set(i+1, row, header)
		}
		style(1, len(headers), row, bold)
		row++

		for _, item := range quote.Items(section) {
			set(1, row, item.Name)
			set(2, row, item.Quantity)
			set(3, row, item.Unit)
			set(4, row, item.Price)
			set(5, row, item.Total)
			style(4, 5, row, money)
			row++
		}

		total, _ := quote.SectionTotal(section)
		set(4, row, models.SectionTotalLabel(section)+":")
		set(5, row, total)
		style(4, 4, row, bold)
		style(5, 5, row, money)
		row += 2
	}

	set(4, row, "Всего:")
	set(5, row, quote.GrandTotal)
	style(4, 4, row, bold)
	style(5, 5, row, money)

	_ = file.SetColWidth(quoteSheetName, "A", "A", 45)
	_ = file.SetColWidth(quoteSheetName, "B", "C", 12)
	_ = file.SetColWidth(quoteSheetName, "D", "E", 18)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
