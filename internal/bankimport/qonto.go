package bankimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/numfmt"
)

// QontoParser parses transaction exports from Qonto, a French business
// banking platform. Qonto exports carry a status column; only settled
// transactions are emitted, pending ones are skipped outright since they
// must not be reconciled.
type QontoParser struct{}

// Format returns the parser name.
func (p *QontoParser) Format() string { return "qonto" }

// Sniff checks the Qonto header signature.
func (p *QontoParser) Sniff(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	first := strings.ToLower(strings.SplitN(content, "\n", 2)[0])
	hasDate := strings.Contains(first, "settled_at") ||
		strings.Contains(first, "emitted_at") ||
		(strings.Contains(first, "date") && strings.Contains(first, "label"))
	hasAmount := strings.Contains(first, "local_amount") || strings.Contains(first, "amount")
	return hasDate && hasAmount
}

// settled statuses; anything else is a not-yet-final transaction.
var qontoSettled = map[string]bool{
	"completed":     true,
	"settled":       true,
	"abgeschlossen": true,
}

// Parse reads a Qonto CSV export.
func (p *QontoParser) Parse(content string) ParseResult {
	lines := csvutil.Lines(content)
	if len(lines) == 0 {
		return failure("qonto", Header{Delimiter: ','}, "CSV-Datei ist leer")
	}

	delim := csvutil.DetectDelimiter(lines[0])
	columns := csvutil.SplitLine(lines[0], delim)
	header := Header{
		Format:    "qonto",
		Columns:   columns,
		Delimiter: delim,
		Valid: findColumnContains(columns, "settled_at", "emitted_at", "date") >= 0 &&
			findColumnContains(columns, "amount") >= 0,
	}
	if !header.Valid {
		return failure("qonto", header, "Ungültiger CSV-Header - Qonto-Format erwartet")
	}

	dateCol := findColumn(columns, "settled_at", "emitted_at", "date", "datum")
	labelCol := findColumn(columns, "label", "description", "beschreibung")
	amountCol := findColumn(columns, "local_amount", "amount", "betrag")
	statusCol := findColumn(columns, "status", "transaction_status")
	categoryCol := findColumn(columns, "category", "kategorie")
	refCol := findColumn(columns, "reference", "transaction_id", "id")
	vatCol := findColumn(columns, "vat_amount", "vat", "mwst")

	var fileErrors []string
	if dateCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Date"/"settled_at" nicht gefunden`)
	}
	if amountCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Amount"/"local_amount" nicht gefunden`)
	}
	if len(fileErrors) > 0 {
		return failure("qonto", header, fileErrors...)
	}

	var txns []model.NormalizedTransaction
	for i, line := range lines[1:] {
		fields := csvutil.SplitLine(line, delim)
		rowNumber := i + 2

		if statusCol >= 0 {
			status := strings.ToLower(csvutil.Field(fields, statusCol))
			if status != "" && !qontoSettled[status] {
				continue // not final, not even an error row
			}
		}

		var rowErrors, rowWarnings []string

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

		description := ""
		if labelCol >= 0 {
			description = strings.TrimSpace(csvutil.Field(fields, labelCol))
		}
		if description == "" {
			description = "Qonto Transaktion"
		}

		if vatCol >= 0 {
			if vat, ok := numfmt.ParseNumber(csvutil.Field(fields, vatCol)); ok && !vat.IsZero() {
				rowWarnings = append(rowWarnings, fmt.Sprintf("MwSt: %s€", vat.StringFixed(2)))
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

// isZeroLiteral reports whether s spells an actual zero amount, so that a
// parsed zero can be told apart from a parse failure.
func isZeroLiteral(s string) bool {
	switch strings.TrimSpace(s) {
	case "0", "0.00", "0,00":
		return true
	}
	return false
}

// finish computes stats and the no-valid-rows warning shared by all parsers.
func finish(header Header, txns []model.NormalizedTransaction) ParseResult {
	valid := 0
	for _, t := range txns {
		if t.Valid() {
			valid++
		}
	}

	var warnings []string
	if valid == 0 && len(txns) > 0 {
		warnings = append(warnings, "Keine gültigen Zeilen gefunden - bitte CSV-Format prüfen")
	}

	return ParseResult{
		Header:       header,
		Transactions: txns,
		Warnings:     warnings,
		Stats:        Stats{Total: len(txns), Valid: valid, Invalid: len(txns) - valid},
	}
}
