package pricing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingFloat matches the numeric prefix of a cell, trailing text such as "шт" is ignored
var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// CellText converts a raw cell value to its text form.
// Numbers use the shortest representation that round-trips ("1500.4", "15004").
func CellText(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// isFalsy reports whether a cell counts as "no value": nil, empty text, zero or false
func isFalsy(cell interface{}) bool {
	switch v := cell.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case bool:
		return !v
	}
	return false
}

// isBlankCell reports whether a cell is falsy or whitespace-only text
func isBlankCell(cell interface{}) bool {
	if isFalsy(cell) {
		return true
	}
	return strings.TrimSpace(CellText(cell)) == ""
}

// ParseAmount converts a cell to a whole number.
// Whitespace is dropped, "," is read as a decimal point and the leading float is rounded half up.
// When both "," and "." occur the one appearing last is the decimal point and the other groups
// thousands. Anything unparsable yields 0.
func ParseAmount(cell interface{}) int64 {
	switch v := cell.(type) {
	case float64:
		return roundHalfUp(v)
	case int:
		return int64(v)
	case int64:
		return v
	}

	match := leadingFloat.FindString(normalizeNumber(CellText(cell)))
	if match == "" {
		return 0
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return roundHalfUp(f)
}

func normalizeNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\ufeff' {
			return -1
		}
		return r
	}, s)

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot > lastComma:
		return strings.ReplaceAll(s, ",", "")
	case lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
	}
	return strings.ReplaceAll(s, ",", ".")
}

// roundHalfUp rounds like the calculator widget does: halves go towards +Inf
func roundHalfUp(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	r := math.Floor(f + 0.5)
	if r >= math.MaxInt64 || r < math.MinInt64 {
		return 0
	}
	return int64(r)
}
