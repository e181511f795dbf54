package bankimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/numfmt"
)

// RelioParser parses transaction exports from Relio, a Swiss business
// banking platform. Relio files carry a running balance column which is
// surfaced per row as an informational warning, never an error.
type RelioParser struct{}

// Format returns the parser name.
func (p *RelioParser) Format() string { return "relio" }

// Sniff checks the Relio header signature.
func (p *RelioParser) Sniff(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	first := strings.ToLower(strings.SplitN(content, "\n", 2)[0])
	hasDate := strings.Contains(first, "buchungsdatum") ||
		strings.Contains(first, "booking date") ||
		strings.Contains(first, "valuta") ||
		strings.Contains(first, "value date")
	hasAmount := strings.Contains(first, "betrag") || strings.Contains(first, "amount")
	hasBalance := strings.Contains(first, "saldo") || strings.Contains(first, "balance")
	return hasDate && hasAmount && hasBalance
}

// Parse reads a Relio CSV export.
func (p *RelioParser) Parse(content string) ParseResult {
	lines := csvutil.Lines(content)
	if len(lines) == 0 {
		return failure("relio", Header{Delimiter: ','}, "CSV-Datei ist leer")
	}

	delim := csvutil.DetectDelimiter(lines[0])
	columns := csvutil.SplitLine(lines[0], delim)
	header := Header{
		Format:    "relio",
		Columns:   columns,
		Delimiter: delim,
		Valid:     findColumnContains(columns, "buchungsdatum", "booking date", "valuta") >= 0,
	}
	if !header.Valid {
		return failure("relio", header, "Ungültiger CSV-Header - Relio-Format erwartet")
	}

	dateCol := findColumnContains(columns, "buchungsdatum", "booking date")
	if dateCol < 0 {
		dateCol = findColumn(columns, "datum", "date")
	}
	valutaCol := findColumnContains(columns, "valuta", "value date")
	descCol := findColumnContains(columns, "buchungstext", "beschreibung", "description")
	if descCol < 0 {
		descCol = findColumn(columns, "text")
	}
	amountCol := findColumn(columns, "betrag", "amount")
	balanceCol := findColumn(columns, "saldo", "balance")
	refCol := findColumnContains(columns, "referenz", "reference")
	categoryCol := findColumn(columns, "kategorie", "category")

	var fileErrors []string
	if dateCol < 0 && valutaCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Buchungsdatum"/"Date" nicht gefunden`)
	}
	if amountCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Betrag"/"Amount" nicht gefunden`)
	}
	if descCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Buchungstext"/"Description" nicht gefunden`)
	}
	if len(fileErrors) > 0 {
		return failure("relio", header, fileErrors...)
	}

	var txns []model.NormalizedTransaction
	for i, line := range lines[1:] {
		fields := csvutil.SplitLine(line, delim)
		rowNumber := i + 2

		var rowErrors, rowWarnings []string

		// Booking date preferred, Valuta as fallback.
		dateStr := ""
		if dateCol >= 0 {
			dateStr = csvutil.Field(fields, dateCol)
		} else {
			dateStr = csvutil.Field(fields, valutaCol)
		}
		date, dateOK := numfmt.ParseDate(dateStr)
		if !dateOK {
			rowErrors = append(rowErrors, fmt.Sprintf("Ungültiges Datum: %s", dateStr))
			date = time.Now()
		}

		amountStr := csvutil.Field(fields, amountCol)
		amount, amountOK := numfmt.ParseNumber(amountStr)
		if !amountOK || (amount.IsZero() && !isZeroLiteral(amountStr)) {
			rowErrors = append(rowErrors, fmt.Sprintf("Ungültiger Betrag: %s", amountStr))
		}

		description := strings.TrimSpace(csvutil.Field(fields, descCol))
		if description == "" {
			rowErrors = append(rowErrors, "Buchungstext fehlt")
		}

		if balanceCol >= 0 {
			if balance, ok := numfmt.ParseNumber(csvutil.Field(fields, balanceCol)); ok && !balance.IsZero() {
				rowWarnings = append(rowWarnings, fmt.Sprintf("Saldo: CHF %s", balance.StringFixed(2)))
			}
		}

		txns = append(txns, model.NormalizedTransaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Reference:   csvutil.Field(fields, refCol),
			Category:    csvutil.Field(fields, categoryCol),
			RowNumber:   rowNumber,
			Errors:      rowErrors,
			Warnings:    rowWarnings,
		})
	}

	return finish(header, txns)
}
