package utils

import (
	"strconv"
	"strings"
)

// GroupSeparator is the digit grouping character of the ru-RU number format (no-break space)
const GroupSeparator = '\u00a0'

// FormatGrouped formats an integer amount like "12 345" using ru-RU digit grouping.
// No decimals are printed, negative amounts get a leading "-".
func FormatGrouped(amount int64) string {
	neg := amount < 0
	s := strconv.FormatInt(amount, 10)
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	// digits + separators (2 bytes each in UTF-8) + sign
	b.Grow(len(s) + 2*(len(s)/3) + 1)
	if neg {
		b.WriteByte('-')
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteRune(GroupSeparator)
		b.WriteString(s[i : i+3])
	}

	return b.String()
}

// FormatRubles formats an amount with the ruble sign, e.g. "15 204 ₽"
func FormatRubles(amount int64) string {
	return FormatGrouped(amount) + string(GroupSeparator) + "₽"
}
