package bankimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/numfmt"
)

// PayPalParser parses PayPal activity exports, German or English column
// set. Only completed transactions are emitted; PayPal lists holds,
// reversals and pending movements under other statuses and those must not
// reach the ledger.
type PayPalParser struct{}

// Format returns the parser name.
func (p *PayPalParser) Format() string { return "paypal" }

// Sniff checks the PayPal header signature.
func (p *PayPalParser) Sniff(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	first := strings.ToLower(strings.SplitN(content, "\n", 2)[0])
	hasDate := strings.Contains(first, "datum") || strings.Contains(first, "date")
	hasTxID := strings.Contains(first, "transaktionscode") || strings.Contains(first, "transaction id")
	hasAmount := strings.Contains(first, "brutto") || strings.Contains(first, "gross") ||
		strings.Contains(first, "netto") || strings.Contains(first, "net")
	return hasDate && hasTxID && hasAmount
}

// Parse reads a PayPal CSV export.
func (p *PayPalParser) Parse(content string) ParseResult {
	lines := csvutil.Lines(content)
	if len(lines) == 0 {
		return failure("paypal", Header{Delimiter: ','}, "CSV-Datei ist leer")
	}

	delim := csvutil.DetectDelimiter(lines[0])
	columns := csvutil.SplitLine(lines[0], delim)
	header := Header{
		Format:    "paypal",
		Columns:   columns,
		Delimiter: delim,
		Valid:     findColumnContains(columns, "datum", "date") >= 0,
	}
	if !header.Valid {
		return failure("paypal", header, "Ungültiger CSV-Header - PayPal-Format erwartet")
	}

	dateCol := findColumn(columns, "datum", "date")
	nameCol := findColumn(columns, "name")
	typeCol := findColumn(columns, "typ", "type")
	statusCol := findColumn(columns, "status")
	grossCol := findColumn(columns, "brutto", "gross")
	netCol := findColumn(columns, "netto", "net")
	refCol := findColumnContains(columns, "transaktionscode", "transaction id", "transaktions-id")

	var fileErrors []string
	if dateCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Datum" oder "Date" nicht gefunden`)
	}
	if grossCol < 0 && netCol < 0 {
		fileErrors = append(fileErrors, `Weder "Brutto"/"Gross" noch "Netto"/"Net" Spalte gefunden`)
	}
	if len(fileErrors) > 0 {
		return failure("paypal", header, fileErrors...)
	}

	amountCol := grossCol
	if amountCol < 0 {
		amountCol = netCol
	}

	var txns []model.NormalizedTransaction
	for i, line := range lines[1:] {
		fields := csvutil.SplitLine(line, delim)
		rowNumber := i + 2

		status := strings.ToLower(csvutil.Field(fields, statusCol))
		if status != "abgeschlossen" && status != "completed" {
			continue
		}

		var rowErrors []string

		dateStr := csvutil.Field(fields, dateCol)
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

		// "Name (Typ)" as booking text.
		name := csvutil.Field(fields, nameCol)
		txType := csvutil.Field(fields, typeCol)
		description := name
		if txType != "" {
			description = fmt.Sprintf("%s (%s)", name, txType)
		}
		if name == "" && txType == "" {
			rowErrors = append(rowErrors, "Name/Buchungstext fehlt")
		}

		txns = append(txns, model.NormalizedTransaction{
			Date:        date,
			Description: strings.TrimSpace(description),
			Amount:      amount,
			Reference:   csvutil.Field(fields, refCol),
			Category:    txType,
			RowNumber:   rowNumber,
			Errors:      rowErrors,
		})
	}

	return finish(header, txns)
}
