package datev

import (
	"strconv"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/csvutil"
	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// Master-data files (Sachkontenstamm, DebitorenKreditorenstammdaten) are
// semicolon-delimited with the key in field 0 and the display name in
// field 1; trailing fields vary by DATEV version and are ignored.
const (
	masterColNumber = 0
	masterColName   = 1
)

// ParseAccountMaster reads a Sachkontenstamm file into ledger accounts.
// Duplicate account numbers within one file collapse to the last occurrence.
func ParseAccountMaster(raw []byte, tenantID int64, chartName string) []model.LedgerAccount {
	content := csvutil.DecodeLatin1(raw)
	records := csvutil.Records(content, ';')

	byNumber := make(map[string]model.LedgerAccount)
	var order []string
	for _, rec := range records {
		number := csvutil.Field(rec, masterColNumber)
		name := csvutil.Field(rec, masterColName)
		if number == "" || name == "" {
			continue
		}
		if _, err := strconv.Atoi(number); err != nil {
			continue // header or junk row
		}
		if _, seen := byNumber[number]; !seen {
			order = append(order, number)
		}
		byNumber[number] = model.LedgerAccount{
			TenantID:      tenantID,
			Chart:         chartName,
			AccountNumber: number,
			Name:          name,
		}
	}

	accounts := make([]model.LedgerAccount, 0, len(order))
	for _, n := range order {
		accounts = append(accounts, byNumber[n])
	}
	return accounts
}

// ParsePartnerMaster reads a DebitorenKreditorenstammdaten file. The file
// has no explicit type column, so the account-number range decides: leading
// digit 1 is a debtor, 7 a creditor, anything else is a general-ledger
// account that does not belong in the partner master.
func ParsePartnerMaster(raw []byte, tenantID int64) []model.BusinessPartner {
	content := csvutil.DecodeLatin1(raw)
	records := csvutil.Records(content, ';')

	byNumber := make(map[string]model.BusinessPartner)
	var order []string
	for _, rec := range records {
		number := csvutil.Field(rec, masterColNumber)
		name := csvutil.Field(rec, masterColName)
		if number == "" || name == "" {
			continue
		}
		n, err := strconv.Atoi(number)
		if err != nil || n <= 0 {
			continue
		}

		var kind model.PartyKind
		switch leadingDigit(n) {
		case 1:
			kind = model.PartyDebtor
		case 7:
			kind = model.PartyCreditor
		default:
			continue
		}

		if _, seen := byNumber[number]; !seen {
			order = append(order, number)
		}
		byNumber[number] = model.BusinessPartner{
			TenantID:      tenantID,
			AccountNumber: number,
			Name:          name,
			Kind:          kind,
		}
	}

	partners := make([]model.BusinessPartner, 0, len(order))
	for _, n := range order {
		partners = append(partners, byNumber[n])
	}
	return partners
}

func leadingDigit(n int) int {
	for n >= 10 {
		n /= 10
	}
	return n
}
