// Package chart classifies account numbers against a chart of accounts
// (Kontenrahmen). The numeric range boundaries differ between SKR03 and
// SKR04 and so are data, selected per tenant, not conditionals in the
// reconstructor.
package chart

import (
	"fmt"
	"strconv"
	"time"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// KindRange maps an inclusive account-number range to a booking kind.
type KindRange struct {
	From int               `yaml:"from"`
	To   int               `yaml:"to"`
	Kind model.BookingKind `yaml:"kind"`
}

// PartyRange maps an inclusive counter-account range to a counterparty kind.
type PartyRange struct {
	From int             `yaml:"from"`
	To   int             `yaml:"to"`
	Kind model.PartyKind `yaml:"kind"`
}

// Chart is one tenant's active chart of accounts.
type Chart struct {
	Name        string       `yaml:"name"`
	KindRanges  []KindRange  `yaml:"kind_ranges"`
	PartyRanges []PartyRange `yaml:"party_ranges"`
	// FiscalYearStartMonth is 1 for calendar-year tenants. A document dated
	// before the start month belongs to the fiscal year that began in the
	// previous calendar year.
	FiscalYearStartMonth int `yaml:"fiscal_year_start_month"`
}

// personal-account ranges are the same in SKR03 and SKR04.
var standardPartyRanges = []PartyRange{
	{From: 10000, To: 69999, Kind: model.PartyDebtor},
	{From: 70000, To: 99999, Kind: model.PartyCreditor},
}

// SKR04 returns the SKR 04 chart (Abschlussgliederungsprinzip).
func SKR04() Chart {
	return Chart{
		Name: "SKR04",
		KindRanges: []KindRange{
			{From: 0, To: 999, Kind: model.KindAsset},
			{From: 7000, To: 7999, Kind: model.KindRevenue},
			{From: 8000, To: 9999, Kind: model.KindExpense},
		},
		PartyRanges:          standardPartyRanges,
		FiscalYearStartMonth: 1,
	}
}

// SKR03 returns the SKR 03 chart (Prozessgliederungsprinzip).
func SKR03() Chart {
	return Chart{
		Name: "SKR03",
		KindRanges: []KindRange{
			{From: 0, To: 999, Kind: model.KindAsset},
			{From: 8000, To: 8999, Kind: model.KindRevenue},
			{From: 4000, To: 4999, Kind: model.KindExpense},
		},
		PartyRanges:          standardPartyRanges,
		FiscalYearStartMonth: 1,
	}
}

// ByName resolves a chart identifier from config.
func ByName(name string) (Chart, error) {
	switch name {
	case "SKR03", "skr03":
		return SKR03(), nil
	case "SKR04", "skr04", "":
		return SKR04(), nil
	}
	return Chart{}, fmt.Errorf("unknown chart of accounts %q", name)
}

// KindOf classifies an account number. Non-numeric accounts and numbers
// outside every range are KindOther.
func (c Chart) KindOf(accountNo string) model.BookingKind {
	n, err := strconv.Atoi(accountNo)
	if err != nil {
		return model.KindOther
	}
	for _, r := range c.KindRanges {
		if n >= r.From && n <= r.To {
			return r.Kind
		}
	}
	return model.KindOther
}

// PartyOf classifies a counter-account number.
func (c Chart) PartyOf(accountNo string) model.PartyKind {
	n, err := strconv.Atoi(accountNo)
	if err != nil {
		return model.PartyOther
	}
	for _, r := range c.PartyRanges {
		if n >= r.From && n <= r.To {
			return r.Kind
		}
	}
	return model.PartyOther
}

// Period returns the booking period (1-12) for a document date. Periods are
// calendar months regardless of the fiscal-year start.
func (c Chart) Period(date time.Time) int {
	return int(date.Month())
}

// FiscalYear returns the fiscal year a document date belongs to.
func (c Chart) FiscalYear(date time.Time) int {
	start := c.FiscalYearStartMonth
	if start <= 1 {
		return date.Year()
	}
	if int(date.Month()) < start {
		return date.Year() - 1
	}
	return date.Year()
}
