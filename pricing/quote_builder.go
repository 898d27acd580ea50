package pricing

import (
	"strings"

	"enel-smeta/models"
	"enel-smeta/utils"
)

// Column layout of the quote range (B:F in the sheet)
const (
	colName = iota
	colQuantity
	colUnit
	colPrice
	colTotal
)

// Absolute position of the authoritative grand total: row 50 of the range, column F.
// Row 0 is the header row.
const (
	GrandTotalRow = 49
	GrandTotalCol = colTotal
)

// BuildQuote turns a raw sheet grid into a priced quote.
//
// Rows are scanned once, top to bottom, with the section cursor starting at materials.
// Marker rows move the cursor, blank rows are skipped and everything else becomes a line item
// of the current section when it has a name and non-zero quantity, price and total.
// The grand total is read from the fixed cell (GrandTotalRow, GrandTotalCol) and is never summed.
// BuildQuote does not fail: malformed cells count as zero and degenerate rows are dropped.
func BuildQuote(grid models.Grid, company models.CompanyInfo) models.Quote {
	quote := models.Quote{
		CompanyInfo: company,
		Materials:   []models.LineItem{},
		Consumables: []models.LineItem{},
		Equipment:   []models.LineItem{},
		Labor:       []models.LineItem{},
	}

	current := models.SectionMaterials
	for _, row := range grid.Rows() {
		if isBlankRow(row) {
			continue
		}
		if section, ok := MatchSectionMarker(cellAt(row, colName)); ok {
			current = section
			continue
		}

		item, ok := parseLineItem(row)
		if !ok {
			continue
		}
		switch current {
		case models.SectionMaterials:
			quote.Materials = append(quote.Materials, item)
		case models.SectionConsumables:
			quote.Consumables = append(quote.Consumables, item)
		case models.SectionEquipment:
			quote.Equipment = append(quote.Equipment, item)
		case models.SectionLabor:
			quote.Labor = append(quote.Labor, item)
		}
	}

	quote.MaterialsTotal = sumTotals(quote.Materials)
	quote.MaterialsTotalFormatted = utils.FormatGrouped(quote.MaterialsTotal)
	quote.ConsumablesTotal = sumTotals(quote.Consumables)
	quote.ConsumablesTotalFormatted = utils.FormatGrouped(quote.ConsumablesTotal)
	quote.EquipmentTotal = sumTotals(quote.Equipment)
	quote.EquipmentTotalFormatted = utils.FormatGrouped(quote.EquipmentTotal)
	quote.LaborTotal = sumTotals(quote.Labor)
	quote.LaborTotalFormatted = utils.FormatGrouped(quote.LaborTotal)

	quote.GrandTotal = GrandTotal(grid)
	quote.GrandTotalFormatted = utils.FormatGrouped(quote.GrandTotal)

	return quote
}

// GrandTotal reads the authoritative total cell, 0 when the row or cell is missing
func GrandTotal(grid models.Grid) int64 {
	if len(grid) <= GrandTotalRow {
		return 0
	}
	return ParseAmount(cellAt(grid[GrandTotalRow], GrandTotalCol))
}

// DisplayLines renders every grid row, header included, as its cells joined by " - "
func DisplayLines(grid models.Grid) []models.DisplayLine {
	lines := make([]models.DisplayLine, 0, len(grid))
	for _, row := range grid {
		texts := make([]string, len(row))
		for i, cell := range row {
			texts[i] = CellText(cell)
		}
		lines = append(lines, models.DisplayLine{Text: strings.Join(texts, " - ")})
	}
	return lines
}

func parseLineItem(row []interface{}) (models.LineItem, bool) {
	var name, unit string
	if cell := cellAt(row, colName); !isFalsy(cell) {
		name = strings.TrimSpace(CellText(cell))
	}
	if cell := cellAt(row, colUnit); !isFalsy(cell) {
		unit = CellText(cell)
	}

	quantity := ParseAmount(cellAt(row, colQuantity))
	price := ParseAmount(cellAt(row, colPrice))
	total := ParseAmount(cellAt(row, colTotal))

	if name == "" || quantity == 0 || price == 0 || total == 0 {
		return models.LineItem{}, false
	}

	return models.LineItem{
		Name:              name,
		Quantity:          quantity,
		QuantityFormatted: utils.FormatGrouped(quantity),
		Unit:              unit,
		Price:             price,
		PriceFormatted:    utils.FormatGrouped(price),
		Total:             total,
		TotalFormatted:    utils.FormatGrouped(total),
	}, true
}

func isBlankRow(row []interface{}) bool {
	for _, cell := range row {
		if !isBlankCell(cell) {
			return false
		}
	}
	return true
}

func cellAt(row []interface{}, col int) interface{} {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

func sumTotals(items []models.LineItem) int64 {
	var sum int64
	for _, item := range items {
		sum += item.Total
	}
	return sum
}
