// Package datev reads and writes DATEV interchange formats: the GDPdU
// booking journal (Buchungssatzprotokoll), account and partner master files,
// and the EXTF booking-stack CSV dialect.
package datev

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
)

// GDPdU journal files are semicolon-delimited with no descriptive header;
// columns are positional. Indices per the DATEV Buchungssatzprotokoll layout.
const (
	jnlColDocNumber  = 1
	jnlColLineNumber = 2
	jnlColDocDate    = 3
	jnlColExtRef     = 4
	jnlColMarker     = 11 // "S" or "H"
	jnlColText       = 17
	jnlColAccount    = 18
	jnlColDebit      = 19
	jnlColCredit     = 20
	jnlColTaxRate    = 21
	jnlColCounter    = 23
	jnlColDocID      = 40
)

// JournalLine is one physical row of a GDPdU booking journal.
type JournalLine struct {
	DocumentNumber string
	LineNumber     int
	DocumentDate   string // raw DD.MM.YYYY, parsed during reconstruction
	ExternalRef    string
	Marker         string // "S" = Soll (debit), "H" = Haben (credit)
	Text           string
	Account        string
	DebitAmount    decimal.Decimal
	CreditAmount   decimal.Decimal
	TaxRate        decimal.Decimal
	CounterAccount string
	DocumentID     string
}

// ParseJournal reads raw GDPdU journal bytes (UTF-8 or Latin-1) into journal
// lines. Lines lacking a document number or account carry no posting and are
// dropped; the count of dropped lines is returned for the run summary.
func ParseJournal(raw []byte) (lines []JournalLine, dropped int) {
	content := csvutil.DecodeLatin1(raw)
	records := csvutil.Records(content, ';')

	for _, rec := range records {
		line := JournalLine{
			DocumentNumber: csvutil.Field(rec, jnlColDocNumber),
			LineNumber:     parseIntField(csvutil.Field(rec, jnlColLineNumber)),
			DocumentDate:   csvutil.Field(rec, jnlColDocDate),
			ExternalRef:    csvutil.Field(rec, jnlColExtRef),
			Marker:         strings.ToUpper(csvutil.Field(rec, jnlColMarker)),
			Text:           csvutil.Field(rec, jnlColText),
			Account:        csvutil.Field(rec, jnlColAccount),
			DebitAmount:    parseAmountField(csvutil.Field(rec, jnlColDebit)),
			CreditAmount:   parseAmountField(csvutil.Field(rec, jnlColCredit)),
			TaxRate:        parseAmountField(csvutil.Field(rec, jnlColTaxRate)),
			CounterAccount: csvutil.Field(rec, jnlColCounter),
			DocumentID:     csvutil.Field(rec, jnlColDocID),
		}

		if line.DocumentNumber == "" || line.Account == "" {
			dropped++
			continue
		}
		lines = append(lines, line)
	}
	return lines, dropped
}

// ParseDatevDate parses the DD.MM.YYYY shape used by GDPdU exports.
func ParseDatevDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("02.01.2006", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseAmountField reads a German-format amount ("1.234,56"); blank or
// unparseable fields are zero, per the best-effort normalizer contract.
func parseAmountField(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	normalized := strings.ReplaceAll(s, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseIntField(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
