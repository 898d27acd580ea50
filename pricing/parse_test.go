package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"enel-smeta/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"text", "нет", 0},
		{"number", 15004.0, 15004},
		{"number half", 2.5, 3},
		{"negative half", -2.5, -2},
		{"int", 7, 7},
		{"dot decimal", "1234.50", 1235},
		{"comma decimal with spaces", "1 234,50", 1235},
		{"nbsp grouping", "1\u00a0234,49", 1234},
		{"comma grouping dot decimal", "1,500.40", 1500},
		{"dot grouping comma decimal", "1.234,5", 1235},
		{"trailing unit", "100 руб", 100},
		{"leading dot", ".6", 1},
		{"exponent", "1e3", 1000},
		{"sign", "-15", -15},
		{"bool", true, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"overflow", "1e30", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in))
		})
	}
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "1500.4", CellText(1500.4))
	assert.Equal(t, "15004", CellText(15004.0))
	assert.Equal(t, "false", CellText(false))
	assert.Equal(t, "шт", CellText("шт"))
}

func TestMatchSectionMarker(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   models.Section
		wantOK bool
	}{
		{"Расходники", models.SectionConsumables, true},
		{"расходники:", models.SectionConsumables, true},
		{"  ТЕХНИКА  ", models.SectionEquipment, true},
		{"Equipment", models.SectionEquipment, true},
		{"Работа", models.SectionLabor, true},
		{"работы:", models.SectionLabor, true},
		{"Строй работа:", models.SectionLabor, true},
		{"строй работа", models.SectionLabor, true},
		{"Материалы", "", false},
		{"Техника и транспорт", "", false},
		{"работа::", "", false},
		{42.0, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := MatchSectionMarker(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
