package datev

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleBookings() []model.Booking {
	return []model.Booking{
		{
			TenantID:       1,
			DocumentDate:   time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			DocumentNumber: "1000",
			DebitAccount:   "6800",
			CreditAccount:  "1200",
			NetAmount:      dec("100.00"),
			TaxRate:        dec("19"),
			GrossAmount:    dec("119.00"),
			Text:           `Miete "März"`,
		},
		{
			TenantID:       1,
			DocumentDate:   time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
			DocumentNumber: "1001",
			DebitAccount:   "1200",
			CreditAccount:  "7100",
			NetAmount:      dec("2500.00"),
			GrossAmount:    dec("2500.00"),
			Text:           "Kundenzahlung",
		},
	}
}

func TestExportExtf_HeaderAndRows(t *testing.T) {
	out := ExportExtf(sampleBookings(), ExportMeta{
		AdvisorNumber:   "22593",
		ClientNumber:    "28245",
		FiscalYearStart: 1,
		From:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:              time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Created:         time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasPrefix(lines[0], `"EXTF";510;"Buchungsstapel"`))
	assert.Contains(t, lines[0], "22593;28245;01")
	assert.Contains(t, lines[0], "01012025;31122025")
	assert.True(t, strings.HasPrefix(lines[1], `"Umsatz (ohne Soll/Haben-Kz)"`))

	row := strings.Split(lines[2], ";")
	assert.Equal(t, "119,00", row[extfColAmount])
	assert.Equal(t, "S", row[extfColMarker])
	assert.Equal(t, "EUR", row[extfColCurrency])
	assert.Equal(t, "100,00", row[extfColNetAmount])
	assert.Equal(t, "6800", row[extfColAccount])
	assert.Equal(t, "1200", row[extfColCounter])
	assert.Equal(t, "15032025", row[extfColDocDate])
	assert.Equal(t, "1000", row[extfColDocField1])
	assert.Equal(t, "19,00", row[extfColTaxRate])
	// Embedded quotes double up.
	assert.Contains(t, lines[2], `"Miete ""März"""`)
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName("28245", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "EXTF_28245_2025-06-01.csv", name)
}

func TestSniffExtf(t *testing.T) {
	out := ExportExtf(sampleBookings(), ExportMeta{})
	assert.True(t, SniffExtf(out))

	assert.False(t, SniffExtf("settled_at,label,amount\n1,2,3\n"))
	assert.False(t, SniffExtf("Buchungsdatum;Betrag;Saldo\n01.03.2025;1;2\n"))
	assert.False(t, SniffExtf(""))
}

func TestParseExtf_Errors(t *testing.T) {
	res := ParseExtf("")
	assert.NotEmpty(t, res.Errors)

	// Headerless positional CSV with a bad row.
	row := strings.Join([]string{"", "X", "EUR", "", "", "", "", "", "", "bad", "", "", "", "", ""}, ";")
	res = ParseExtf("col;col;col;col;col;col;col;col;col;col\n" + row)
	require.Len(t, res.Bookings, 1)
	b := res.Bookings[0]
	assert.Contains(t, b.Errors, "Umsatz ist erforderlich und muss > 0 sein")
	assert.Contains(t, b.Errors, `Soll/Haben muss "S" oder "H" sein`)
	assert.Contains(t, b.Errors, "Konto ist erforderlich")
	assert.Equal(t, 1, res.Stats.Invalid)

	// Row problems stay on the row; Errors is reserved for file-level
	// failures, so a partially bad file still yields its good rows.
	assert.Empty(t, res.Errors)
}

func TestParseExtf_RowErrorsDoNotBlockGoodRows(t *testing.T) {
	good := strings.Join([]string{"119,00", "S", "EUR", "", "100,00", "", "8400", "1200", "", "1503", "RE-100", "", "", "Verkauf", ""}, ";")
	bad := strings.Join([]string{"", "X", "EUR", "", "", "", "", "", "", "bad", "", "", "", "", ""}, ";")
	res := ParseExtf("col;col;col;col;col;col;col;col;col;col\n" + good + "\n" + bad)

	assert.Empty(t, res.Errors)
	require.Len(t, res.Bookings, 2)
	assert.Empty(t, res.Bookings[0].Errors)
	assert.NotEmpty(t, res.Bookings[1].Errors)
	assert.Equal(t, 2, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.Valid)
	assert.Equal(t, 1, res.Stats.Invalid)
}

func TestExtfRoundTrip(t *testing.T) {
	original := sampleBookings()
	meta := ExportMeta{
		AdvisorNumber:   "22593",
		ClientNumber:    "28245",
		FiscalYearStart: 1,
		From:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:              time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	out := ExportExtf(original, meta)
	res := ParseExtf(out)

	require.True(t, res.IsExtf)
	require.Empty(t, res.Errors)
	assert.Equal(t, "22593", res.Header.AdvisorNumber)
	assert.Equal(t, "28245", res.Header.ClientNumber)

	reimported := res.ToBookings(testOpts())
	require.Len(t, reimported, len(original))

	for i, want := range original {
		got := reimported[i]
		assert.Equal(t, want.DebitAccount, got.DebitAccount, "row %d", i)
		assert.Equal(t, want.CreditAccount, got.CreditAccount, "row %d", i)
		assert.True(t, want.NetAmount.Equal(got.NetAmount), "net row %d: %s vs %s", i, want.NetAmount, got.NetAmount)
		assert.True(t, want.TaxRate.Equal(got.TaxRate), "tax row %d", i)
		assert.True(t, want.DocumentDate.Equal(got.DocumentDate), "date row %d", i)
		assert.Equal(t, want.DocumentNumber, got.DocumentNumber, "doc row %d", i)
	}
}
