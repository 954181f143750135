// internal/resume/matching/format.go
package matching

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatYears renders a year count with at least one decimal place:
// 5 becomes "5.0" and 3.25 stays "3.25".
func FormatYears(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatAmount renders a salary rounded to whole units with thousands
// grouping, e.g. "1,250,000".
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.0f", v)
}
