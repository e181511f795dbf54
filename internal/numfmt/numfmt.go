// Package numfmt parses locale-variant numbers and dates as they appear in
// DATEV and bank CSV exports. Both parsers are best-effort: they never return
// a Go error, they report success with a bool so callers can attach row-level
// diagnostics instead of aborting a file.
package numfmt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// currencyNoise covers symbols and grouping junk seen in bank exports.
const currencyNoise = "€$£¥ \t "

// ParseNumber parses "1.234,56", "1,234.56", "1'234,56" and plain numbers
// into a decimal. The later of the last ',' and last '.' is the decimal mark;
// everything else among ',' '.' and the apostrophe is grouping and gets
// stripped.
//
// Blank input is (0, true). Input that is not numeric after normalization is
// (0, false); the caller decides whether that is a row error.
func ParseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}

	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(currencyNoise, r) {
			continue
		}
		b.WriteRune(r)
	}
	normalized := b.String()
	// "CHF 1'234.50" and friends
	normalized = strings.ReplaceAll(normalized, "CHF", "")

	lastComma := strings.LastIndexByte(normalized, ',')
	lastDot := strings.LastIndexByte(normalized, '.')

	switch {
	case lastComma > lastDot:
		// German/Swiss shape: ',' is the decimal mark.
		normalized = strings.NewReplacer(".", "", "'", "").Replace(normalized)
		normalized = strings.ReplaceAll(normalized, ",", ".")
	case lastDot > lastComma:
		// English shape: '.' is the decimal mark.
		normalized = strings.NewReplacer(",", "", "'", "").Replace(normalized)
	default:
		normalized = strings.ReplaceAll(normalized, "'", "")
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var dateLayouts = []string{
	"02.01.2006",
	"02/01/2006",
	"2006-01-02",
}

// ParseDate parses DD.MM.YYYY, DD/MM/YYYY and YYYY-MM-DD. Blank or
// unparseable input is (zero time, false); absence is not an error here,
// the call site picks the policy.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
