package bankimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/numfmt"
)

// SumUpParser parses SumUp point-of-sale transaction exports. Only
// successful transactions are emitted; the booking text is assembled from
// customer, payment method and description because SumUp has no single
// label column.
type SumUpParser struct{}

// Format returns the parser name.
func (p *SumUpParser) Format() string { return "sumup" }

// Sniff checks the SumUp header signature.
func (p *SumUpParser) Sniff(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	first := strings.ToLower(strings.SplitN(content, "\n", 2)[0])
	hasTxID := strings.Contains(first, "transaction id") || strings.Contains(first, "transaktions-id")
	hasDate := strings.Contains(first, "datum") || strings.Contains(first, "date")
	hasAmount := strings.Contains(first, "amount") || strings.Contains(first, "betrag")
	return hasTxID && hasDate && hasAmount
}

// Parse reads a SumUp CSV export.
func (p *SumUpParser) Parse(content string) ParseResult {
	lines := csvutil.Lines(content)
	if len(lines) == 0 {
		return failure("sumup", Header{Delimiter: ','}, "CSV-Datei ist leer")
	}

	delim := csvutil.DetectDelimiter(lines[0])
	columns := csvutil.SplitLine(lines[0], delim)
	header := Header{
		Format:    "sumup",
		Columns:   columns,
		Delimiter: delim,
		Valid:     findColumnContains(columns, "transaction id", "transaktions-id") >= 0,
	}
	if !header.Valid {
		return failure("sumup", header, "Ungültiger CSV-Header - Sumup-Format erwartet")
	}

	refCol := findColumnContains(columns, "transaction id", "transaktions-id")
	dateCol := findColumn(columns, "datum", "date")
	typeCol := findColumn(columns, "typ", "type")
	methodCol := findColumnContains(columns, "payment method", "zahlungsmethode")
	amountCol := findColumn(columns, "amount", "betrag")
	feeCol := findColumn(columns, "fee", "gebühr", "gebuhr")
	netCol := findColumnContains(columns, "net amount", "nettobetrag")
	statusCol := findColumn(columns, "status")
	descCol := findColumn(columns, "description", "beschreibung")
	customerCol := findColumnContains(columns, "customer name", "kundenname")
	last4Col := findColumnContains(columns, "card last 4", "letzte 4 ziffern")

	var fileErrors []string
	if dateCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Datum" oder "Date" nicht gefunden`)
	}
	if amountCol < 0 && netCol < 0 {
		fileErrors = append(fileErrors, `Weder "Amount"/"Betrag" noch "Net Amount"/"Nettobetrag" Spalte gefunden`)
	}
	if len(fileErrors) > 0 {
		return failure("sumup", header, fileErrors...)
	}

	if amountCol < 0 {
		amountCol = netCol
	}

	var txns []model.NormalizedTransaction
	for i, line := range lines[1:] {
		fields := csvutil.SplitLine(line, delim)
		rowNumber := i + 2

		status := strings.ToLower(csvutil.Field(fields, statusCol))
		if status != "successful" && status != "erfolgreich" && status != "success" {
			continue
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

		description := sumupText(
			csvutil.Field(fields, customerCol),
			csvutil.Field(fields, methodCol),
			csvutil.Field(fields, last4Col),
			csvutil.Field(fields, descCol),
			csvutil.Field(fields, typeCol),
		)

		method := csvutil.Field(fields, methodCol)
		txType := csvutil.Field(fields, typeCol)
		category := method
		if method != "" && txType != "" {
			category = fmt.Sprintf("%s (%s)", txType, method)
		} else if method == "" {
			category = txType
		}

		if feeCol >= 0 {
			if fee, ok := numfmt.ParseNumber(csvutil.Field(fields, feeCol)); ok && !fee.IsZero() {
				rowWarnings = append(rowWarnings, fmt.Sprintf("Gebühr: %s€", fee.StringFixed(2)))
			}
		}

		txns = append(txns, model.NormalizedTransaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Reference:   csvutil.Field(fields, refCol),
			Category:    category,
			RowNumber:   rowNumber,
			Errors:      rowErrors,
			Warnings:    rowWarnings,
		})
	}

	return finish(header, txns)
}

// sumupText assembles "Customer (Method ****1234) - Description", falling
// back to the transaction type or a generic label when every part is empty.
func sumupText(customer, method, last4, description, txType string) string {
	var b strings.Builder
	b.WriteString(customer)

	if method != "" {
		part := method
		if strings.Contains(strings.ToLower(method), "card") && last4 != "" {
			part = fmt.Sprintf("%s ****%s", method, last4)
		}
		if b.Len() > 0 {
			b.WriteString(fmt.Sprintf(" (%s)", part))
		} else {
			b.WriteString(part)
		}
	}

	if description != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(description)
	}

	if b.Len() == 0 {
		if txType != "" {
			return txType
		}
		return "Sumup Transaktion"
	}
	return strings.TrimSpace(b.String())
}
