package store

import (
	"fmt"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// InsertAccounts upserts ledger accounts. Re-imports refresh the name so a
// renamed account in the master file wins without touching bookings.
func (s *Store) InsertAccounts(tenantID int64, accounts []model.LedgerAccount) (Summary, error) {
	var summary Summary
	for _, a := range accounts {
		res, err := s.db.Exec(
			`INSERT INTO sachkonten (unternehmen_id, kontenrahmen, kontonummer, bezeichnung)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(unternehmen_id, kontonummer) DO UPDATE SET
			   bezeichnung = excluded.bezeichnung,
			   kontenrahmen = excluded.kontenrahmen`,
			tenantID, a.Chart, a.AccountNumber, a.Name)
		if err != nil {
			summary.Errors++
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			summary.Imported++
		} else {
			summary.Skipped++
		}
	}
	return summary, nil
}

// InsertPartners upserts business partners into the debtor or creditor table
// according to their kind.
func (s *Store) InsertPartners(tenantID int64, partners []model.BusinessPartner) (Summary, error) {
	var summary Summary
	for _, p := range partners {
		table, err := partnerTable(p.Kind)
		if err != nil {
			summary.Errors++
			continue
		}
		res, err := s.db.Exec(fmt.Sprintf(
			`INSERT INTO %s (unternehmen_id, kontonummer, name)
			 VALUES (?, ?, ?)
			 ON CONFLICT(unternehmen_id, kontonummer) DO UPDATE SET
			   name = excluded.name`, table),
			tenantID, p.AccountNumber, p.Name)
		if err != nil {
			summary.Errors++
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			summary.Imported++
		} else {
			summary.Skipped++
		}
	}
	return summary, nil
}

func partnerTable(kind model.PartyKind) (string, error) {
	switch kind {
	case model.PartyDebtor:
		return "debitoren", nil
	case model.PartyCreditor:
		return "kreditoren", nil
	}
	return "", fmt.Errorf("no partner table for kind %q", kind)
}

// SelectAccounts returns a tenant's ledger accounts ordered by number.
func (s *Store) SelectAccounts(tenantID int64) ([]model.LedgerAccount, error) {
	rows, err := s.db.Query(
		`SELECT kontenrahmen, kontonummer, bezeichnung FROM sachkonten
		 WHERE unternehmen_id = ? ORDER BY kontonummer`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("selecting accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.LedgerAccount
	for rows.Next() {
		a := model.LedgerAccount{TenantID: tenantID}
		if err := rows.Scan(&a.Chart, &a.AccountNumber, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SelectPartners returns a tenant's business partners of one kind ordered by
// account number.
func (s *Store) SelectPartners(tenantID int64, kind model.PartyKind) ([]model.BusinessPartner, error) {
	table, err := partnerTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT kontonummer, name FROM %s
		 WHERE unternehmen_id = ? ORDER BY kontonummer`, table), tenantID)
	if err != nil {
		return nil, fmt.Errorf("selecting partners: %w", err)
	}
	defer rows.Close()

	var partners []model.BusinessPartner
	for rows.Next() {
		p := model.BusinessPartner{TenantID: tenantID, Kind: kind}
		if err := rows.Scan(&p.AccountNumber, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
