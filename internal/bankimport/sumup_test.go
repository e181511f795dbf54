package bankimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumUpParser_Sniff(t *testing.T) {
	p := &SumUpParser{}
	assert.True(t, p.Sniff("Transaction ID,Date,Amount,Status\n"))
	assert.True(t, p.Sniff("Transaktions-ID,Datum,Betrag\n"))
	assert.False(t, p.Sniff("Datum,Name,Brutto,Transaktionscode\n"))
	assert.False(t, p.Sniff(""))
}

func TestSumUpParser_Parse(t *testing.T) {
	p := &SumUpParser{}
	res := p.Parse(readFixture(t, "sumup_transactions.csv"))

	require.Empty(t, res.Errors)
	assert.True(t, res.Header.Valid)

	// 5 data rows, the failed one is skipped entirely.
	require.Len(t, res.Transactions, 4)

	first := res.Transactions[0]
	assert.Equal(t, "Anna Schmidt (Card ****4242) - Tagesumsatz", first.Description)
	assert.Equal(t, "45.00", first.Amount.StringFixed(2))
	assert.Equal(t, "SU-TX-0001", first.Reference)
	assert.Equal(t, "Payment (Card)", first.Category)
	require.Len(t, first.Warnings, 1)
	assert.Equal(t, "Gebühr: 1.17€", first.Warnings[0])

	// No customer, no description: the payment method carries the text.
	cash := res.Transactions[1]
	assert.Equal(t, "Cash", cash.Description)
	assert.Empty(t, cash.Warnings)

	refund := res.Transactions[2]
	assert.Equal(t, "-45.00", refund.Amount.StringFixed(2))

	noDate := res.Transactions[3]
	require.Len(t, noDate.Errors, 1)
	assert.Contains(t, noDate.Errors[0], "Ungültiges Datum")

	assert.Equal(t, Stats{Total: 4, Valid: 3, Invalid: 1}, res.Stats)
}

func TestSumUpParser_NetAmountFallback(t *testing.T) {
	csv := "Transaction ID,Date,Status,Net Amount\nSU-1,10.01.2025,Successful,19.48\n"
	res := (&SumUpParser{}).Parse(csv)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "19.48", res.Transactions[0].Amount.StringFixed(2))
	assert.Equal(t, "Sumup Transaktion", res.Transactions[0].Description)
}

func TestSumUpParser_MissingDateColumn(t *testing.T) {
	res := (&SumUpParser{}).Parse("Transaction ID,Status,Amount\nSU-1,Successful,5.00\n")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Datum")
	assert.Empty(t, res.Transactions)
}

func TestSumUpParser_EmptyFile(t *testing.T) {
	res := (&SumUpParser{}).Parse("")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "CSV-Datei ist leer", res.Errors[0])
}
