package bankimport

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/numfmt"
)

// SoldoParser parses Soldo company-card exports. Card name and wallet
// identify the format; the card is appended to the booking text so
// transactions from different cards stay distinguishable.
type SoldoParser struct{}

// Format returns the parser name.
func (p *SoldoParser) Format() string { return "soldo" }

// Sniff checks the Soldo header signature.
func (p *SoldoParser) Sniff(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	first := strings.ToLower(strings.SplitN(content, "\n", 2)[0])
	hasCard := strings.Contains(first, "card name") || strings.Contains(first, "kartenname")
	hasWallet := strings.Contains(first, "wallet") || strings.Contains(first, "konto")
	return hasCard && hasWallet
}

// Parse reads a Soldo CSV export.
func (p *SoldoParser) Parse(content string) ParseResult {
	lines := csvutil.Lines(content)
	if len(lines) == 0 {
		return failure("soldo", Header{Delimiter: ','}, "CSV-Datei ist leer")
	}

	delim := csvutil.DetectDelimiter(lines[0])
	columns := csvutil.SplitLine(lines[0], delim)
	header := Header{
		Format:    "soldo",
		Columns:   columns,
		Delimiter: delim,
		Valid:     findColumnContains(columns, "card name", "kartenname") >= 0,
	}
	if !header.Valid {
		return failure("soldo", header, "Ungültiger CSV-Header - Soldo-Format erwartet")
	}

	dateCol := findColumn(columns, "datum", "date")
	amountCol := findColumn(columns, "amount", "betrag")
	descCol := findColumn(columns, "description", "beschreibung")
	cardCol := findColumnContains(columns, "card name", "kartenname")
	last4Col := findColumnContains(columns, "card last 4", "letzte 4 ziffern")
	walletCol := findColumn(columns, "wallet", "konto")
	categoryCol := findColumn(columns, "category", "kategorie")
	refCol := findColumnContains(columns, "transaction id", "transaktions-id")
	statusCol := findColumn(columns, "status")

	var fileErrors []string
	if dateCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Datum" oder "Date" nicht gefunden`)
	}
	if amountCol < 0 {
		fileErrors = append(fileErrors, `Spalte "Amount" oder "Betrag" nicht gefunden`)
	}
	if len(fileErrors) > 0 {
		return failure("soldo", header, fileErrors...)
	}

	var txns []model.NormalizedTransaction
	for i, line := range lines[1:] {
		fields := csvutil.SplitLine(line, delim)
		rowNumber := i + 2

		// Without a status column every row counts; Soldo exports the
		// column only in some report variants.
		if statusCol >= 0 {
			status := strings.ToLower(csvutil.Field(fields, statusCol))
			if status != "completed" && status != "abgeschlossen" && status != "complete" {
				continue
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

		description := csvutil.Field(fields, descCol)
		if description == "" {
			rowErrors = append(rowErrors, "Buchungstext fehlt")
			description = "Soldo Transaktion"
		}
		if card := csvutil.Field(fields, cardCol); card != "" {
			if last4 := csvutil.Field(fields, last4Col); last4 != "" {
				description = fmt.Sprintf("%s (Karte: %s ****%s)", description, card, last4)
			} else {
				description = fmt.Sprintf("%s (Karte: %s)", description, card)
			}
		}

		category := csvutil.Field(fields, categoryCol)
		wallet := csvutil.Field(fields, walletCol)
		switch {
		case category != "" && wallet != "":
			category = fmt.Sprintf("%s (%s)", category, wallet)
		case category == "":
			category = wallet
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
