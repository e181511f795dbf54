package bankimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoldoParser_Sniff(t *testing.T) {
	p := &SoldoParser{}
	assert.True(t, p.Sniff("Date,Wallet,Card Name,Amount\n"))
	assert.True(t, p.Sniff("Datum,Konto,Kartenname,Betrag\n"))
	assert.False(t, p.Sniff("Transaction ID,Date,Amount,Status\n"))
	assert.False(t, p.Sniff(""))
}

func TestSoldoParser_Parse(t *testing.T) {
	p := &SoldoParser{}
	res := p.Parse(readFixture(t, "soldo_export.csv"))

	require.Empty(t, res.Errors)
	assert.True(t, res.Header.Valid)

	// 5 data rows, the pending one is skipped entirely.
	require.Len(t, res.Transactions, 4)

	first := res.Transactions[0]
	assert.Equal(t, "Google Ads (Karte: Lisa Weber ****7781)", first.Description)
	assert.Equal(t, "-89.90", first.Amount.StringFixed(2))
	assert.Equal(t, "SO-TX-0001", first.Reference)
	assert.Equal(t, "Advertising (Marketing)", first.Category)
	assert.Equal(t, 2, first.RowNumber)

	// Empty description is a row error but the card still shows.
	blank := res.Transactions[2]
	require.Len(t, blank.Errors, 1)
	assert.Equal(t, "Buchungstext fehlt", blank.Errors[0])
	assert.Equal(t, "Soldo Transaktion (Karte: Tom Braun ****3310)", blank.Description)
	assert.Equal(t, "Operations", blank.Category)

	badAmount := res.Transactions[3]
	require.Len(t, badAmount.Errors, 1)
	assert.Contains(t, badAmount.Errors[0], "Ungültiger Betrag")

	assert.Equal(t, Stats{Total: 4, Valid: 2, Invalid: 2}, res.Stats)
}

func TestSoldoParser_NoStatusColumnImportsAll(t *testing.T) {
	csv := "Date,Wallet,Card Name,Amount\n10.01.2025,Ops,Tom Braun,-5.00\n"
	res := (&SoldoParser{}).Parse(csv)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Soldo Transaktion (Karte: Tom Braun)", res.Transactions[0].Description)
}

func TestSoldoParser_MissingAmountColumn(t *testing.T) {
	res := (&SoldoParser{}).Parse("Date,Wallet,Card Name\n10.01.2025,Ops,Tom Braun\n")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Amount")
	assert.Empty(t, res.Transactions)
}

func TestSoldoParser_EmptyFile(t *testing.T) {
	res := (&SoldoParser{}).Parse("")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "CSV-Datei ist leer", res.Errors[0])
}
