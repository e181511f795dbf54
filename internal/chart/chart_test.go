package chart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

func TestSKR04_KindOf(t *testing.T) {
	c := SKR04()
	assert.Equal(t, model.KindAsset, c.KindOf("0420"))
	assert.Equal(t, model.KindRevenue, c.KindOf("7100"))
	assert.Equal(t, model.KindExpense, c.KindOf("8400"))
	assert.Equal(t, model.KindOther, c.KindOf("1200"))
	assert.Equal(t, model.KindOther, c.KindOf("not-a-number"))
}

func TestSKR03_KindOf(t *testing.T) {
	c := SKR03()
	assert.Equal(t, model.KindExpense, c.KindOf("4120"))
	assert.Equal(t, model.KindRevenue, c.KindOf("8400"))
	assert.Equal(t, model.KindAsset, c.KindOf("0210"))
	assert.Equal(t, model.KindOther, c.KindOf("7000"))
}

func TestPartyOf(t *testing.T) {
	c := SKR04()
	assert.Equal(t, model.PartyDebtor, c.PartyOf("10001"))
	assert.Equal(t, model.PartyDebtor, c.PartyOf("69999"))
	assert.Equal(t, model.PartyCreditor, c.PartyOf("70000"))
	assert.Equal(t, model.PartyCreditor, c.PartyOf("99999"))
	assert.Equal(t, model.PartyOther, c.PartyOf("1200"))
	assert.Equal(t, model.PartyOther, c.PartyOf(""))
}

func TestByName(t *testing.T) {
	c, err := ByName("SKR03")
	require.NoError(t, err)
	assert.Equal(t, "SKR03", c.Name)

	// Empty defaults to SKR04.
	c, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, "SKR04", c.Name)

	_, err = ByName("SKR99")
	assert.Error(t, err)
}

func TestFiscalYear_CalendarYear(t *testing.T) {
	c := SKR04()
	d := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, c.FiscalYear(d))
	assert.Equal(t, 3, c.Period(d))
}

func TestFiscalYear_ShiftedStart(t *testing.T) {
	c := SKR04()
	c.FiscalYearStartMonth = 7

	march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2024, c.FiscalYear(march))

	july := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2025, c.FiscalYear(july))

	// Periods stay calendar months.
	assert.Equal(t, 3, c.Period(march))
}
