package utils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var cellRefRegex = regexp.MustCompile(`^[A-Z]{1,3}[1-9][0-9]*$`)

// DefaultCellMapping maps calculator widget fields to the spreadsheet input cells
var DefaultCellMapping = map[string]string{
	"value1": "J2",
	"value2": "K2",
	"value3": "I2",
}

// ParseCellMapping parses "value1=J2,value2=K2" into a field -> cell map.
// Cell references are normalized to uppercase and validated.
func ParseCellMapping(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	mapping := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid mapping entry %q: expected field=CELL", pair)
		}
		field := strings.TrimSpace(parts[0])
		cell := strings.ToUpper(strings.TrimSpace(parts[1]))
		if field == "" {
			return nil, fmt.Errorf("invalid mapping entry %q: empty field name", pair)
		}
		if !cellRefRegex.MatchString(cell) {
			return nil, fmt.Errorf("invalid mapping entry %q: bad cell reference %s", pair, cell)
		}
		mapping[field] = cell
	}
	return mapping, nil
}

// MappedFields returns the mapping keys in a stable order
func MappedFields(mapping map[string]string) []string {
	fields := make([]string, 0, len(mapping))
	for field := range mapping {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// MapFieldToLabel maps a widget field name to the label shown in notifications.
// Unknown fields are returned unchanged.
func MapFieldToLabel(field string) string {
	labels := map[string]string{
		"value1": "Длина",
		"value2": "Ширина",
		"value3": "Толщина",
	}

	if label, exists := labels[strings.ToLower(strings.TrimSpace(field))]; exists {
		return label
	}
	return field
}

// SheetCellRange builds an A1 range like "Sheet1!J2"
func SheetCellRange(sheet, cell string) string {
	if sheet == "" {
		return cell
	}
	return sheet + "!" + cell
}
