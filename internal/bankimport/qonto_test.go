package bankimport

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestQontoParser_Sniff(t *testing.T) {
	p := &QontoParser{}
	assert.True(t, p.Sniff("settled_at,label,local_amount\n"))
	assert.True(t, p.Sniff("Date,Label,Amount\n"))
	assert.False(t, p.Sniff("Buchungsdatum;Betrag;Saldo\n"))
	assert.False(t, p.Sniff(""))
}

func TestQontoParser_Parse(t *testing.T) {
	p := &QontoParser{}
	res := p.Parse(readFixture(t, "qonto_settled.csv"))

	require.Empty(t, res.Errors)
	assert.True(t, res.Header.Valid)
	assert.Equal(t, ',', res.Header.Delimiter)

	// 6 data rows, the pending one is skipped entirely.
	require.Len(t, res.Transactions, 5)
	for _, txn := range res.Transactions {
		assert.NotEqual(t, "Pending Card Hold", txn.Description)
	}

	first := res.Transactions[0]
	assert.Equal(t, "AWS EMEA SARL", first.Description)
	assert.Equal(t, "-120.50", first.Amount.StringFixed(2))
	assert.Equal(t, "qonto-tx-001", first.Reference)
	assert.Equal(t, "cloud_services", first.Category)
	assert.Equal(t, 2, first.RowNumber)
	require.Len(t, first.Warnings, 1)
	assert.Equal(t, "MwSt: 19.24€", first.Warnings[0])

	// German-format quoted amount.
	rent := res.Transactions[2]
	assert.Equal(t, "Office Rent", rent.Description)
	assert.Equal(t, "-1250.00", rent.Amount.StringFixed(2))

	// Missing date is a row error, row stays for audit.
	missing := res.Transactions[3]
	require.Len(t, missing.Errors, 1)
	assert.Contains(t, missing.Errors[0], "Ungültiges Datum")
	assert.False(t, missing.Valid())

	// Literal zero amount is not an error.
	refund := res.Transactions[4]
	assert.True(t, refund.Amount.IsZero())
	assert.True(t, refund.Valid())

	assert.Equal(t, Stats{Total: 5, Valid: 4, Invalid: 1}, res.Stats)
	assert.Len(t, res.ValidTransactions(), 4)
}

func TestQontoParser_PendingExcludedEntirely(t *testing.T) {
	csv := "settled_at,label,amount,status\n10.01.2025,Hold,-5.00,pending\n"
	res := (&QontoParser{}).Parse(csv)
	assert.Empty(t, res.Transactions)
	assert.Equal(t, 0, res.Stats.Total)
}

func TestQontoParser_NoStatusColumnImportsAll(t *testing.T) {
	csv := "settled_at,label,amount\n10.01.2025,Coffee,-5.00\n"
	res := (&QontoParser{}).Parse(csv)
	require.Len(t, res.Transactions, 1)
	assert.True(t, res.Transactions[0].Valid())
}

func TestQontoParser_EmptyLabelDefaults(t *testing.T) {
	csv := "settled_at,label,amount\n10.01.2025,,-5.00\n"
	res := (&QontoParser{}).Parse(csv)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Qonto Transaktion", res.Transactions[0].Description)
}

func TestQontoParser_EmptyFile(t *testing.T) {
	res := (&QontoParser{}).Parse("")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "CSV-Datei ist leer", res.Errors[0])
	assert.Empty(t, res.Transactions)
}

func TestQontoParser_MissingAmountColumn(t *testing.T) {
	res := (&QontoParser{}).Parse("settled_at,label,amount_missing_entirely\nx,y,z\n")
	// Header sniffs as Qonto-ish but the amount alias set cannot resolve.
	assert.NotEmpty(t, res.Errors)
	assert.Empty(t, res.Transactions)
}
