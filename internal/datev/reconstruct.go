package datev

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/chart"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// ReconstructOptions parameterize one reconstruction run. TenantID is always
// explicit; the engine carries no ambient tenant state.
type ReconstructOptions struct {
	TenantID  int64
	Chart     chart.Chart
	ImportRef string
	Source    string // import source tag, e.g. "datev_gdpdu"
	Now       time.Time
	CreatedBy string
}

// ReconstructStats counts what happened to the input lines.
type ReconstructStats struct {
	Lines    int // journal lines considered
	Groups   int // distinct (document number, line number) groups
	Bookings int
	Dropped  int // lines without document number or account
}

// NewImportRef returns a fresh import-reference tag for a run, e.g.
// "DATEV_2025_1a2b3c4d". The year scopes the tag, the uuid fragment makes
// concurrent runs distinguishable in the audit trail.
func NewImportRef(source string, year int) string {
	return fmt.Sprintf("%s_%d_%s", source, year, uuid.NewString()[:8])
}

// Reconstruct groups flat journal lines into double-entry bookings.
//
// Each (document number, line number) group normally holds one S-marked and
// one H-marked line, the two sides of one posting. Opening and closing
// entries appear as a lone line; its own marker decides which side it
// occupies. A malformed group is skipped without aborting the batch.
func Reconstruct(lines []JournalLine, opts ReconstructOptions) ([]model.Booking, ReconstructStats) {
	if opts.Source == "" {
		opts.Source = "datev_gdpdu"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	type groupKey struct {
		doc  string
		line int
	}
	groups := make(map[groupKey][]JournalLine)
	var order []groupKey
	for _, l := range lines {
		k := groupKey{l.DocumentNumber, l.LineNumber}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], l)
	}

	stats := ReconstructStats{Lines: len(lines), Groups: len(groups)}
	var bookings []model.Booking

	for _, k := range order {
		group := groups[k]

		var soll, haben *JournalLine
		for i := range group {
			switch group[i].Marker {
			case "S":
				if soll == nil {
					soll = &group[i]
				}
			case "H":
				if haben == nil {
					haben = &group[i]
				}
			}
		}

		var b model.Booking
		switch {
		case soll != nil && haben != nil:
			b = pairedBooking(*soll, *haben, opts)
		case len(group) > 0:
			b = singleBooking(group[0], opts)
		default:
			continue
		}

		if b.DebitAccount == b.CreditAccount {
			// A posting against itself carries no information; DATEV
			// produces these for technical carry-forward lines.
			continue
		}

		bookings = append(bookings, b)
	}

	stats.Bookings = len(bookings)
	return bookings, stats
}

// pairedBooking builds a booking from matched S and H lines.
func pairedBooking(soll, haben JournalLine, opts ReconstructOptions) model.Booking {
	amount := soll.DebitAmount
	if amount.IsZero() {
		amount = haben.CreditAmount
	}
	taxRate := soll.TaxRate
	if taxRate.IsZero() {
		taxRate = haben.TaxRate
	}

	b := baseBooking(soll, opts)
	b.NetAmount = amount
	b.TaxRate = taxRate
	b.GrossAmount = grossFromNet(amount, taxRate)
	b.DebitAccount = soll.Account
	b.CreditAccount = haben.Account
	return b
}

// singleBooking handles lone lines (opening/closing entries): the line's own
// marker decides which side its account occupies, the counter-account takes
// the other side.
func singleBooking(line JournalLine, opts ReconstructOptions) model.Booking {
	amount := line.DebitAmount
	if amount.IsZero() {
		amount = line.CreditAmount
	}

	b := baseBooking(line, opts)
	b.NetAmount = amount
	b.TaxRate = line.TaxRate
	b.GrossAmount = grossFromNet(amount, line.TaxRate)
	if line.Marker == "H" {
		b.DebitAccount = line.CounterAccount
		b.CreditAccount = line.Account
	} else {
		b.DebitAccount = line.Account
		b.CreditAccount = line.CounterAccount
	}
	return b
}

// baseBooking fills the fields shared by both shapes from the primary line.
func baseBooking(line JournalLine, opts ReconstructOptions) model.Booking {
	text := line.Text
	if text == "" {
		text = "Unbekannt"
	}

	docDate, dateOK := ParseDatevDate(line.DocumentDate)
	fiscalYear := opts.Now.Year()
	period := 1
	if dateOK {
		fiscalYear = opts.Chart.FiscalYear(docDate)
		period = opts.Chart.Period(docDate)
	}

	partyAccount := line.CounterAccount
	if partyAccount == "" {
		partyAccount = line.Account
	}

	return model.Booking{
		TenantID:        opts.TenantID,
		Kind:            opts.Chart.KindOf(line.Account),
		DocumentDate:    docDate,
		DocumentNumber:  line.DocumentNumber,
		LineNumber:      line.LineNumber,
		PartyKind:       opts.Chart.PartyOf(line.CounterAccount),
		Party:           text,
		PartyAccount:    partyAccount,
		Text:            text,
		FiscalYear:      fiscalYear,
		Period:          period,
		DocumentID:      line.DocumentID,
		ImportSource:    opts.Source,
		ImportTimestamp: opts.Now,
		ImportRef:       opts.ImportRef,
		CreatedBy:       opts.CreatedBy,
	}
}

// grossFromNet applies the gross invariant: gross = net * (1 + rate/100)
// when a tax rate is present, rounded to cents; otherwise gross = net.
func grossFromNet(net, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return net
	}
	hundred := decimal.NewFromInt(100)
	return net.Mul(hundred.Add(rate)).Div(hundred).Round(2)
}
