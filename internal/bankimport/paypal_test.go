package bankimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayPalParser_Sniff(t *testing.T) {
	p := &PayPalParser{}
	assert.True(t, p.Sniff("Datum,Name,Status,Brutto,Transaktionscode\n"))
	assert.True(t, p.Sniff("Date,Name,Status,Gross,Transaction ID\n"))
	assert.False(t, p.Sniff("settled_at,label,amount\n"))
	assert.False(t, p.Sniff(""))
}

func TestPayPalParser_Parse(t *testing.T) {
	p := &PayPalParser{}
	res := p.Parse(readFixture(t, "paypal_activity.csv"))

	require.Empty(t, res.Errors)
	assert.True(t, res.Header.Valid)

	// 5 data rows, the pending one is skipped entirely.
	require.Len(t, res.Transactions, 4)

	first := res.Transactions[0]
	assert.Equal(t, "Max Mustermann (Website-Zahlung)", first.Description)
	assert.Equal(t, "250.00", first.Amount.StringFixed(2))
	assert.Equal(t, "PP-TX-0001", first.Reference)
	assert.Equal(t, "Website-Zahlung", first.Category)
	assert.Equal(t, 2, first.RowNumber)

	// Brutto wins over Netto.
	fee := res.Transactions[1]
	assert.Equal(t, "-19.99", fee.Amount.StringFixed(2))

	// Name and Typ both empty is a row error.
	unnamed := res.Transactions[2]
	require.Len(t, unnamed.Errors, 1)
	assert.Equal(t, "Name/Buchungstext fehlt", unnamed.Errors[0])

	noDate := res.Transactions[3]
	require.Len(t, noDate.Errors, 1)
	assert.Contains(t, noDate.Errors[0], "Ungültiges Datum")

	assert.Equal(t, Stats{Total: 4, Valid: 2, Invalid: 2}, res.Stats)
}

func TestPayPalParser_NettoFallback(t *testing.T) {
	csv := "Datum,Name,Typ,Status,Netto,Transaktionscode\n10.01.2025,Shop,Zahlung,Completed,\"99,00\",PP-1\n"
	res := (&PayPalParser{}).Parse(csv)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "99.00", res.Transactions[0].Amount.StringFixed(2))
}

func TestPayPalParser_MissingAmountColumns(t *testing.T) {
	res := (&PayPalParser{}).Parse("Datum,Name,Transaktionscode\n10.01.2025,X,PP-1\n")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Brutto")
	assert.Empty(t, res.Transactions)
}

func TestPayPalParser_EmptyFile(t *testing.T) {
	res := (&PayPalParser{}).Parse("")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "CSV-Datei ist leer", res.Errors[0])
}
