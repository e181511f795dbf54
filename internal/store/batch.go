package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Summary is the unit every persistence run reports. Duplicate-key rows are
// skips, not failures; only genuinely broken rows count as errors.
type Summary struct {
	Imported int
	Skipped  int
	Errors   int
}

// Add folds another summary in.
func (s *Summary) Add(other Summary) {
	s.Imported += other.Imported
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}

func (s Summary) String() string {
	return fmt.Sprintf("imported=%d skipped=%d errors=%d", s.Imported, s.Skipped, s.Errors)
}

// inLookupChunk keeps IN (...) lists well under SQLite's variable limit.
const inLookupChunk = 400

// isUniqueViolation detects a duplicate natural key. Only unique and
// primary-key violations qualify; NOT NULL or CHECK failures must stay
// errors, not skips.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// existingKeys runs a batched lookup of which candidate keys already exist
// for the tenant. query must select a single key column and contain %s where
// the IN placeholder list goes, plus a leading tenant-id parameter.
func (s *Store) existingKeys(query string, tenantID int64, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)

	for start := 0; start < len(keys); start += inLookupChunk {
		end := start + inLookupChunk
		if end > len(keys) {
			end = len(keys)
		}
		chunk := keys[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, 0, len(chunk)+1)
		args = append(args, tenantID)
		for _, k := range chunk {
			args = append(args, k)
		}

		rows, err := s.db.Query(fmt.Sprintf(query, placeholders), args...)
		if err != nil {
			return nil, fmt.Errorf("querying existing keys: %w", err)
		}
		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning existing key: %w", err)
			}
			existing[key] = true
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("reading existing keys: %w", err)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading existing keys: %w", err)
		}
	}
	return existing, nil
}

// insertChunked inserts rows in fixed-size chunks via multi-VALUES
// statements. A chunk that trips a unique constraint is retried row-by-row
// so one collision cannot mask new rows in the same chunk; per-row
// duplicates become skips, other per-row failures become errors.
func (s *Store) insertChunked(table string, columns []string, rows [][]any, chunkSize int) (Summary, error) {
	var summary Summary
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	colList := strings.Join(columns, ", ")
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			placeholders[i] = rowPlaceholder
			args = append(args, row...)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, colList, strings.Join(placeholders, ", "))
		if _, err := s.db.Exec(query, args...); err == nil {
			summary.Imported += len(chunk)
			continue
		} else if !isUniqueViolation(err) {
			return summary, fmt.Errorf("inserting into %s: %w", table, err)
		}

		// Someone in this chunk collided; retry one row at a time.
		single := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", table, colList, rowPlaceholder)
		for _, row := range chunk {
			_, err := s.db.Exec(single, row...)
			switch {
			case err == nil:
				summary.Imported++
			case isUniqueViolation(err):
				summary.Skipped++
			default:
				summary.Errors++
			}
		}
	}
	return summary, nil
}
