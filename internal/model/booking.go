package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingKind classifies a booking by the chart-of-accounts position of its
// primary account.
type BookingKind string

const (
	KindAsset   BookingKind = "anlage"
	KindRevenue BookingKind = "ertrag"
	KindExpense BookingKind = "aufwand"
	KindOther   BookingKind = "sonstig"
)

// PartyKind classifies the counterparty by the counter-account number range.
type PartyKind string

const (
	PartyDebtor   PartyKind = "debitor"
	PartyCreditor PartyKind = "kreditor"
	PartyOther    PartyKind = "sonstig"
)

// Booking is one canonical double-entry posting as persisted in the ledger
// store. DebitAccount/CreditAccount are the Soll/Haben sides; the pair
// (TenantID, DocumentNumber, LineNumber) is the natural dedup key for DATEV
// imports.
type Booking struct {
	TenantID        int64
	Kind            BookingKind
	DocumentDate    time.Time
	DocumentNumber  string
	LineNumber      int
	PartyKind       PartyKind
	Party           string
	PartyAccount    string
	DebitAccount    string // Soll
	CreditAccount   string // Haben
	NetAmount       decimal.Decimal
	TaxRate         decimal.Decimal // percent, e.g. 19
	GrossAmount     decimal.Decimal
	Text            string
	Status          string // entwurf, geprueft, exportiert
	FiscalYear      int
	Period          int // 1-12
	DocumentID      string
	ImportSource    string
	ImportTimestamp time.Time
	ImportRef       string
	CreatedBy       string
}

// LedgerAccount is one row of the account master (Sachkonto).
// AccountNumber is the immutable key; Name may change on reimport.
type LedgerAccount struct {
	TenantID      int64
	Chart         string // Kontenrahmen identifier, e.g. "SKR04"
	AccountNumber string
	Name          string
}

// BusinessPartner is one row of the debtor/creditor master.
type BusinessPartner struct {
	TenantID      int64
	AccountNumber string
	Name          string
	Kind          PartyKind
}
