package datev

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// EXTF booking-stack column positions (EXTF 510, Buchungsstapel).
const (
	extfColAmount    = 0 // Umsatz, gross, no sign
	extfColMarker    = 1 // Soll/Haben-Kennzeichen
	extfColCurrency  = 2
	extfColNetAmount = 4 // Basis-Umsatz
	extfColAccount   = 6
	extfColCounter   = 7
	extfColBUKey     = 8
	extfColDocDate   = 9 // DDMM or DDMMYYYY
	extfColDocField1 = 10
	extfColDocField2 = 11
	extfColDiscount  = 12
	extfColText      = 13
	extfColTaxRate   = 14 // appended by this exporter for lossless round-trips
	extfNumColumns   = 15
)

// ExportMeta is the tenant metadata rendered into the EXTF header record.
type ExportMeta struct {
	AdvisorNumber   string // Beraternummer
	ClientNumber    string // Mandantennummer
	FiscalYearStart int    // month, 1-12
	From, To        time.Time
	Created         time.Time
}

// ExtfBooking is one parsed EXTF data row.
type ExtfBooking struct {
	GrossAmount    decimal.Decimal
	Marker         string // "S" or "H"
	Currency       string
	NetAmount      decimal.Decimal
	Account        string
	CounterAccount string
	BUKey          string
	DocumentDate   time.Time
	DocumentNumber string
	Text           string
	TaxRate        decimal.Decimal
	RowNumber      int
	Errors         []string
	Warnings       []string
}

// ExtfParseResult mirrors the bank parsers' result shape for EXTF files.
type ExtfParseResult struct {
	Header   ExportMeta
	IsExtf   bool
	Bookings []ExtfBooking
	Errors   []string
	Warnings []string
	Stats    struct {
		Total, Valid, Invalid int
		TotalGross            decimal.Decimal
	}
}

var extfColumnHeaders = []string{
	`"Umsatz (ohne Soll/Haben-Kz)"`,
	`"Soll/Haben-Kennzeichen"`,
	`"WKZ Umsatz"`,
	`"Kurs"`,
	`"Basis-Umsatz"`,
	`"WKZ Basis-Umsatz"`,
	`"Konto"`,
	`"Gegenkonto (ohne BU-Schlüssel)"`,
	`"BU-Schlüssel"`,
	`"Belegdatum"`,
	`"Belegfeld 1"`,
	`"Belegfeld 2"`,
	`"Skonto"`,
	`"Buchungstext"`,
	`"Steuersatz"`,
}

// ExportExtf renders bookings into the DATEV EXTF CSV dialect: one metadata
// header record, one column-header line, one data row per booking.
// Amounts use the comma decimal mark and no grouping.
func ExportExtf(bookings []model.Booking, meta ExportMeta) string {
	now := meta.Created
	if now.IsZero() {
		now = time.Now()
	}
	from := meta.From
	if from.IsZero() {
		from = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	to := meta.To
	if to.IsZero() {
		to = time.Date(now.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	}
	fyStart := meta.FiscalYearStart
	if fyStart < 1 || fyStart > 12 {
		fyStart = 1
	}

	var lines []string

	header := []string{
		`"EXTF"`,
		"510",
		`"Buchungsstapel"`,
		"16",
		"1",
		extfDate(now),
		"",
		`"RE"`,
		`"Buchhaltung Upload Tool"`,
		"",
		meta.AdvisorNumber,
		meta.ClientNumber,
		fmt.Sprintf("%02d", fyStart),
		"4",
		extfDate(from),
		extfDate(to),
	}
	lines = append(lines, strings.Join(header, ";"))
	lines = append(lines, strings.Join(extfColumnHeaders, ";"))

	for _, b := range bookings {
		row := make([]string, extfNumColumns)
		row[extfColAmount] = extfNumber(b.GrossAmount)
		row[extfColMarker] = "S"
		row[extfColCurrency] = "EUR"
		row[extfColNetAmount] = extfNumber(b.NetAmount)
		row[extfColAccount] = b.DebitAccount
		row[extfColCounter] = b.CreditAccount
		row[extfColDocDate] = extfDate(b.DocumentDate)
		row[extfColDocField1] = b.DocumentNumber
		row[extfColText] = `"` + strings.ReplaceAll(b.Text, `"`, `""`) + `"`
		row[extfColTaxRate] = extfNumber(b.TaxRate)
		lines = append(lines, strings.Join(row, ";"))
	}

	return strings.Join(lines, "\n")
}

// ExportFileName builds the conventional EXTF file name for a run.
func ExportFileName(clientNumber string, date time.Time) string {
	return fmt.Sprintf("EXTF_%s_%s.csv", clientNumber, date.Format("2006-01-02"))
}

// SniffExtf reports whether content looks like a DATEV booking file: an
// EXTF header record, or a semicolon CSV with enough positional fields.
func SniffExtf(content string) bool {
	lines := csvutil.Lines(content)
	if len(lines) < 2 {
		return false
	}
	first := lines[0]
	if strings.HasPrefix(first, `"EXTF"`) || strings.HasPrefix(first, "EXTF") {
		return true
	}
	return len(strings.Split(first, ";")) >= 10
}

// ParseExtf reads an EXTF (or headerless positional CSV) booking stack.
// File-level problems populate Errors; row-level problems stay on the row.
func ParseExtf(content string) ExtfParseResult {
	var result ExtfParseResult

	lines := csvutil.Lines(content)
	if len(lines) < 2 {
		result.Errors = append(result.Errors, "Datei ist leer oder hat zu wenig Zeilen")
		return result
	}

	dataStart := 1
	if strings.HasPrefix(lines[0], `"EXTF"`) || strings.HasPrefix(lines[0], "EXTF") {
		result.IsExtf = true
		result.Header = parseExtfHeader(lines[0])
		dataStart = 2
	}

	refYear := time.Now().Year()
	if !result.Header.From.IsZero() {
		refYear = result.Header.From.Year()
	}

	for i := dataStart; i < len(lines); i++ {
		fields := csvutil.SplitLine(lines[i], ';')
		if len(fields) < 10 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Zeile %d: Zu wenige Felder (%d), übersprungen", i+1, len(fields)))
			continue
		}

		result.Bookings = append(result.Bookings, parseExtfRow(fields, i+1-dataStart, refYear))
	}

	for _, b := range result.Bookings {
		result.Stats.Total++
		if len(b.Errors) == 0 {
			result.Stats.Valid++
			result.Stats.TotalGross = result.Stats.TotalGross.Add(b.GrossAmount)
		} else {
			result.Stats.Invalid++
		}
	}
	return result
}

// ToBookings converts valid EXTF rows into canonical bookings, classifying
// against the chart the same way the GDPdU reconstructor does. Rows whose
// two accounts coincide are skipped.
func (r ExtfParseResult) ToBookings(opts ReconstructOptions) []model.Booking {
	if opts.Source == "" {
		opts.Source = "datev_extf"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	var bookings []model.Booking
	for _, eb := range r.Bookings {
		if len(eb.Errors) > 0 || eb.Account == eb.CounterAccount {
			continue
		}

		debit, credit := eb.Account, eb.CounterAccount
		if eb.Marker == "H" {
			debit, credit = credit, debit
		}

		net := eb.NetAmount
		if net.IsZero() {
			net = eb.GrossAmount
		}
		gross := eb.GrossAmount
		if gross.IsZero() {
			gross = grossFromNet(net, eb.TaxRate)
		}

		text := eb.Text
		if text == "" {
			text = "DATEV Import " + eb.DocumentNumber
		}

		bookings = append(bookings, model.Booking{
			TenantID:        opts.TenantID,
			Kind:            opts.Chart.KindOf(debit),
			DocumentDate:    eb.DocumentDate,
			DocumentNumber:  eb.DocumentNumber,
			LineNumber:      eb.RowNumber,
			PartyKind:       opts.Chart.PartyOf(credit),
			Party:           text,
			PartyAccount:    credit,
			DebitAccount:    debit,
			CreditAccount:   credit,
			NetAmount:       net,
			TaxRate:         eb.TaxRate,
			GrossAmount:     gross,
			Text:            text,
			FiscalYear:      opts.Chart.FiscalYear(eb.DocumentDate),
			Period:          opts.Chart.Period(eb.DocumentDate),
			ImportSource:    opts.Source,
			ImportTimestamp: opts.Now,
			ImportRef:       opts.ImportRef,
			CreatedBy:       opts.CreatedBy,
		})
	}
	return bookings
}

func parseExtfRow(fields []string, rowNumber, refYear int) ExtfBooking {
	b := ExtfBooking{RowNumber: rowNumber}

	var ok bool
	b.GrossAmount = parseAmountField(csvutil.Field(fields, extfColAmount))
	if b.GrossAmount.IsZero() {
		b.Errors = append(b.Errors, "Umsatz ist erforderlich und muss > 0 sein")
	}

	b.Marker = strings.ToUpper(csvutil.Field(fields, extfColMarker))
	if b.Marker != "S" && b.Marker != "H" {
		b.Errors = append(b.Errors, `Soll/Haben muss "S" oder "H" sein`)
	}

	b.Currency = csvutil.Field(fields, extfColCurrency)
	if b.Currency == "" {
		b.Currency = "EUR"
	}
	b.NetAmount = parseAmountField(csvutil.Field(fields, extfColNetAmount))

	b.Account = csvutil.Field(fields, extfColAccount)
	if b.Account == "" {
		b.Errors = append(b.Errors, "Konto ist erforderlich")
	}
	b.CounterAccount = csvutil.Field(fields, extfColCounter)
	if b.CounterAccount == "" {
		b.Errors = append(b.Errors, "Gegenkonto ist erforderlich")
	}
	b.BUKey = csvutil.Field(fields, extfColBUKey)

	b.DocumentDate, ok = ParseExtfDate(csvutil.Field(fields, extfColDocDate), refYear)
	if !ok {
		b.Errors = append(b.Errors, "Belegdatum ist erforderlich (Format: DDMM oder DDMMYYYY)")
	}

	b.DocumentNumber = csvutil.Field(fields, extfColDocField1)
	if b.DocumentNumber == "" {
		b.DocumentNumber = csvutil.Field(fields, extfColDocField2)
	}
	if b.DocumentNumber == "" {
		b.DocumentNumber = fmt.Sprintf("%d", rowNumber)
		b.Warnings = append(b.Warnings, "Keine Belegnummer angegeben, verwende Zeilennummer")
	}

	b.Text = csvutil.Field(fields, extfColText)
	if b.Text == "" {
		b.Warnings = append(b.Warnings, "Buchungstext fehlt")
	}

	b.TaxRate = parseAmountField(csvutil.Field(fields, extfColTaxRate))

	return b
}

// parseExtfHeader pulls the known positional fields out of an EXTF 510
// header record written by this exporter or by DATEV itself.
func parseExtfHeader(line string) ExportMeta {
	fields := csvutil.SplitLine(line, ';')
	var meta ExportMeta
	meta.AdvisorNumber = csvutil.Field(fields, 10)
	meta.ClientNumber = csvutil.Field(fields, 11)
	if fy := parseIntField(csvutil.Field(fields, 12)); fy >= 1 && fy <= 12 {
		meta.FiscalYearStart = fy
	}
	if from, ok := ParseExtfDate(csvutil.Field(fields, 14), 0); ok {
		meta.From = from
	}
	if to, ok := ParseExtfDate(csvutil.Field(fields, 15), 0); ok {
		meta.To = to
	}
	return meta
}

// ParseExtfDate parses DDMM (with refYear) and DDMMYYYY dates.
func ParseExtfDate(s string, refYear int) (time.Time, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	switch len(digits) {
	case 4:
		if refYear == 0 {
			return time.Time{}, false
		}
		t, err := time.Parse("0201 2006", digits+" "+fmt.Sprintf("%04d", refYear))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case 8:
		t, err := time.Parse("02012006", digits)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// extfDate renders DDMMYYYY.
func extfDate(t time.Time) string {
	return t.Format("02012006")
}

// extfNumber renders an amount with the comma decimal mark, two places, no
// grouping.
func extfNumber(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}
