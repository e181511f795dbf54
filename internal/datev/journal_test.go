package datev

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journalRow builds one GDPdU journal line with values at the given
// positional indices; the layout has 41+ columns, most of them unused here.
func journalRow(fields map[int]string) string {
	row := make([]string, 41)
	for i, v := range fields {
		row[i] = v
	}
	return strings.Join(row, ";")
}

func sollRow(doc string, line int, date, account, amount, tax, counter string) string {
	return journalRow(map[int]string{
		jnlColDocNumber:  doc,
		jnlColLineNumber: itoa(line),
		jnlColDocDate:    date,
		jnlColMarker:     "S",
		jnlColText:       "Testbuchung",
		jnlColAccount:    account,
		jnlColDebit:      amount,
		jnlColTaxRate:    tax,
		jnlColCounter:    counter,
		jnlColDocID:      "DOC-" + doc,
	})
}

func habenRow(doc string, line int, date, account, amount, counter string) string {
	return journalRow(map[int]string{
		jnlColDocNumber:  doc,
		jnlColLineNumber: itoa(line),
		jnlColDocDate:    date,
		jnlColMarker:     "H",
		jnlColText:       "Testbuchung",
		jnlColAccount:    account,
		jnlColCredit:     amount,
		jnlColCounter:    counter,
		jnlColDocID:      "DOC-" + doc,
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func TestParseJournal_Positions(t *testing.T) {
	raw := sollRow("1000", 1, "15.03.2025", "8400", "1.234,56", "19", "70001")
	lines, dropped := ParseJournal([]byte(raw))

	require.Len(t, lines, 1)
	assert.Equal(t, 0, dropped)

	l := lines[0]
	assert.Equal(t, "1000", l.DocumentNumber)
	assert.Equal(t, 1, l.LineNumber)
	assert.Equal(t, "15.03.2025", l.DocumentDate)
	assert.Equal(t, "S", l.Marker)
	assert.Equal(t, "Testbuchung", l.Text)
	assert.Equal(t, "8400", l.Account)
	assert.Equal(t, "1234.56", l.DebitAmount.StringFixed(2))
	assert.True(t, l.CreditAmount.IsZero())
	assert.Equal(t, "19", l.TaxRate.String())
	assert.Equal(t, "70001", l.CounterAccount)
	assert.Equal(t, "DOC-1000", l.DocumentID)
}

func TestParseJournal_DropsIncompleteLines(t *testing.T) {
	content := strings.Join([]string{
		sollRow("1000", 1, "15.03.2025", "8400", "100,00", "", "1200"),
		journalRow(map[int]string{jnlColDocNumber: "", jnlColAccount: "8400"}),
		journalRow(map[int]string{jnlColDocNumber: "1001", jnlColAccount: ""}),
	}, "\n")

	lines, dropped := ParseJournal([]byte(content))
	assert.Len(t, lines, 1)
	assert.Equal(t, 2, dropped)
}

func TestParseJournal_Latin1(t *testing.T) {
	row := sollRow("1000", 1, "01.02.2025", "6800", "50,00", "", "1200")
	row = strings.Replace(row, "Testbuchung", "Geb\xe4udemiete", 1)

	lines, _ := ParseJournal([]byte(row))
	require.Len(t, lines, 1)
	assert.Equal(t, "Gebäudemiete", lines[0].Text)
}

func TestParseDatevDate(t *testing.T) {
	d, ok := ParseDatevDate("15.03.2025")
	require.True(t, ok)
	assert.Equal(t, "2025-03-15", d.Format("2006-01-02"))

	_, ok = ParseDatevDate("")
	assert.False(t, ok)
	_, ok = ParseDatevDate("2025-03-15")
	assert.False(t, ok)
}

func TestParseAmountField(t *testing.T) {
	assert.Equal(t, "1234.56", parseAmountField("1.234,56").StringFixed(2))
	assert.Equal(t, "-950.00", parseAmountField("-950,00").StringFixed(2))
	assert.True(t, parseAmountField("").IsZero())
	assert.True(t, parseAmountField("junk").IsZero())
}
