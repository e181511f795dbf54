package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NormalizedTransaction is a parsed bank statement row in the common shape
// every bank parser produces. Rows with a non-empty Errors list stay in the
// parse result for audit but are never persisted.
type NormalizedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = outflow, positive = inflow
	Reference   string
	Category    string
	RowNumber   int // 1-based CSV row, header included
	Errors      []string
	Warnings    []string
}

// Valid reports whether the row is eligible for persistence.
func (t NormalizedTransaction) Valid() bool {
	return len(t.Errors) == 0
}
