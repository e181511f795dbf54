package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

const dateFormat = "2006-01-02"
const timestampFormat = "2006-01-02 15:04:05"

var bookingColumns = []string{
	"unternehmen_id", "buchungsart", "belegdatum", "belegnummer", "buchungszeile",
	"geschaeftspartner_typ", "geschaeftspartner", "geschaeftspartner_konto",
	"soll_konto", "haben_konto", "nettobetrag", "steuersatz", "bruttobetrag",
	"buchungstext", "status", "wirtschaftsjahr", "periode", "beleg_id",
	"import_quelle", "import_datum", "import_referenz", "created_by",
}

// bookingKey is the natural dedup key within a tenant.
func bookingKey(documentNumber string, lineNumber int) string {
	return fmt.Sprintf("%s:%d", documentNumber, lineNumber)
}

// InsertBookings persists bookings idempotently: one batched existence
// lookup, then chunked inserts of the remainder, with the unique constraint
// as the backstop against concurrent runs.
func (s *Store) InsertBookings(tenantID int64, bookings []model.Booking, chunkSize int) (Summary, error) {
	if len(bookings) == 0 {
		return Summary{}, nil
	}

	keys := make([]string, len(bookings))
	for i, b := range bookings {
		keys[i] = bookingKey(b.DocumentNumber, b.LineNumber)
	}

	existing, err := s.existingKeys(
		`SELECT belegnummer || ':' || buchungszeile FROM buchungen
		 WHERE unternehmen_id = ? AND belegnummer || ':' || buchungszeile IN (%s)`,
		tenantID, keys)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	var rows [][]any
	for i, b := range bookings {
		if existing[keys[i]] {
			summary.Skipped++
			continue
		}

		status := b.Status
		if status == "" {
			status = "geprueft"
		}
		var docDate any
		if !b.DocumentDate.IsZero() {
			docDate = b.DocumentDate.Format(dateFormat)
		}

		rows = append(rows, []any{
			tenantID, string(b.Kind), docDate, b.DocumentNumber, b.LineNumber,
			string(b.PartyKind), b.Party, b.PartyAccount,
			b.DebitAccount, b.CreditAccount,
			b.NetAmount.StringFixed(2), b.TaxRate.String(), b.GrossAmount.StringFixed(2),
			b.Text, status, b.FiscalYear, b.Period, b.DocumentID,
			b.ImportSource, b.ImportTimestamp.Format(timestampFormat), b.ImportRef, b.CreatedBy,
		})
	}

	inserted, err := s.insertChunked("buchungen", bookingColumns, rows, chunkSize)
	summary.Add(inserted)
	return summary, err
}

// BookingFilter narrows SelectBookings. Zero values mean "no filter".
type BookingFilter struct {
	From, To  time.Time
	Status    string
	ImportRef string
}

// SelectBookings returns a tenant's bookings ordered by document date, for
// export and reporting.
func (s *Store) SelectBookings(tenantID int64, filter BookingFilter) ([]model.Booking, error) {
	query := `SELECT buchungsart, belegdatum, belegnummer, buchungszeile,
		geschaeftspartner_typ, geschaeftspartner, geschaeftspartner_konto,
		soll_konto, haben_konto, nettobetrag, steuersatz, bruttobetrag,
		buchungstext, status, wirtschaftsjahr, periode, beleg_id,
		import_quelle, import_referenz, created_by
		FROM buchungen WHERE unternehmen_id = ?`
	args := []any{tenantID}

	if !filter.From.IsZero() {
		query += " AND belegdatum >= ?"
		args = append(args, filter.From.Format(dateFormat))
	}
	if !filter.To.IsZero() {
		query += " AND belegdatum <= ?"
		args = append(args, filter.To.Format(dateFormat))
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.ImportRef != "" {
		query += " AND import_referenz = ?"
		args = append(args, filter.ImportRef)
	}
	query += " ORDER BY belegdatum, belegnummer, buchungszeile"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var kind string
		var docDate, partyKind, party, partyAccount sql.NullString
		var text, docID, source, ref, createdBy sql.NullString
		var fiscalYear, period sql.NullInt64
		var net, tax, gross string

		if err := rows.Scan(&kind, &docDate, &b.DocumentNumber, &b.LineNumber,
			&partyKind, &party, &partyAccount,
			&b.DebitAccount, &b.CreditAccount, &net, &tax, &gross,
			&text, &b.Status, &fiscalYear, &period, &docID,
			&source, &ref, &createdBy); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}

		b.TenantID = tenantID
		b.Kind = model.BookingKind(kind)
		b.PartyKind = model.PartyKind(partyKind.String)
		b.Party = party.String
		b.PartyAccount = partyAccount.String
		b.Text = text.String
		b.FiscalYear = int(fiscalYear.Int64)
		b.Period = int(period.Int64)
		b.DocumentID = docID.String
		b.ImportSource = source.String
		b.ImportRef = ref.String
		b.CreatedBy = createdBy.String
		if docDate.Valid {
			if d, err := time.Parse(dateFormat, docDate.String); err == nil {
				b.DocumentDate = d
			}
		}
		if b.NetAmount, err = decimal.NewFromString(net); err != nil {
			return nil, fmt.Errorf("booking %s: bad net amount %q", b.DocumentNumber, net)
		}
		if b.TaxRate, err = decimal.NewFromString(tax); err != nil {
			return nil, fmt.Errorf("booking %s: bad tax rate %q", b.DocumentNumber, tax)
		}
		if b.GrossAmount, err = decimal.NewFromString(gross); err != nil {
			return nil, fmt.Errorf("booking %s: bad gross amount %q", b.DocumentNumber, gross)
		}

		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading bookings: %w", err)
	}
	return bookings, nil
}

// ImportRefs returns the distinct import references recorded for a tenant,
// newest first, for "already imported" detection and audit.
func (s *Store) ImportRefs(tenantID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT import_referenz FROM buchungen
		 WHERE unternehmen_id = ? AND import_referenz != ''
		 GROUP BY import_referenz
		 ORDER BY MAX(import_datum) DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("selecting import refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scanning import ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ExistingYears returns the fiscal years that already hold bookings for a
// tenant.
func (s *Store) ExistingYears(tenantID int64) ([]int, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT wirtschaftsjahr FROM buchungen
		 WHERE unternehmen_id = ? ORDER BY wirtschaftsjahr`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("selecting fiscal years: %w", err)
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scanning fiscal year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}
