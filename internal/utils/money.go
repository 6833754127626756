package utils

import (
	"fmt"
	"strings"
)

// FormatCents renders integer cents as a Brazilian-style decimal string,
// e.g. 1234567 -> "12.345,67". Used for previews and snapshots only; the
// wire and the database always carry raw cents.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := fmt.Sprintf("%s,%02d", b.String(), frac)
	if neg {
		return "-" + out
	}
	return out
}
