// Package bankimport parses bank and fintech platform CSV exports into
// NormalizedTransactions. Each platform is a Parser implementation; the
// Registry tries each parser's sniff in turn, so adding a bank means adding
// one file that satisfies the interface.
package bankimport

import (
	"strings"

	"github.com/angelus200/buchhaltung-upload-tool-sub003/internal/model"
)

// Parser converts one platform's CSV export into the common result shape.
type Parser interface {
	// Format returns the platform name, e.g. "qonto".
	Format() string
	// Sniff is a cheap header check: does this content look like my format?
	Sniff(content string) bool
	// Parse reads the full content. File-level problems land in
	// ParseResult.Errors; Parse never returns a Go error.
	Parse(content string) ParseResult
}

// Header describes the parsed CSV header line.
type Header struct {
	Format    string
	Columns   []string
	Delimiter rune
	Valid     bool
}

// Stats are mandatory audit counts for the caller's summary output.
type Stats struct {
	Total   int
	Valid   int
	Invalid int
}

// ParseResult is the outcome of parsing one file. Errors non-empty means the
// file was rejected and Transactions is empty; row-level problems live on
// the individual transactions instead.
type ParseResult struct {
	Header       Header
	Transactions []model.NormalizedTransaction
	Errors       []string
	Warnings     []string
	Stats        Stats
}

// ValidTransactions returns only the rows eligible for persistence.
func (r ParseResult) ValidTransactions() []model.NormalizedTransaction {
	var out []model.NormalizedTransaction
	for _, t := range r.Transactions {
		if t.Valid() {
			out = append(out, t)
		}
	}
	return out
}

// Registry holds parsers in registration order.
type Registry struct {
	parsers []Parser
	byName  map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.byName[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.byName[key] = p
	r.parsers = append(r.parsers, p)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.byName[strings.ToLower(format)]
}

// Detect sniffs content against each registered parser in order. False
// negatives beat false positives here: no signature match means no parser,
// never a guess.
func (r *Registry) Detect(content string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Sniff(content) {
			return p, true
		}
	}
	return nil, false
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&QontoParser{})
	r.Register(&RelioParser{})
	r.Register(&PayPalParser{})
	// Soldo before SumUp: a Soldo export also carries a transaction id and
	// amount column and would satisfy the looser SumUp signature.
	r.Register(&SoldoParser{})
	r.Register(&SumUpParser{})
	return r
}

// failure builds a ParseResult for a rejected file.
func failure(format string, header Header, errs ...string) ParseResult {
	header.Format = format
	return ParseResult{Header: header, Errors: errs}
}

// findColumn returns the index of the first column whose lowercased name is
// in names, or -1.
func findColumn(columns []string, names ...string) int {
	for i, c := range columns {
		lc := strings.ToLower(c)
		for _, n := range names {
			if lc == n {
				return i
			}
		}
	}
	return -1
}

// findColumnContains is findColumn with substring matching, for headers like
// "Buchungsdatum (UTC)".
func findColumnContains(columns []string, names ...string) int {
	for i, c := range columns {
		lc := strings.ToLower(c)
		for _, n := range names {
			if strings.Contains(lc, n) {
				return i
			}
		}
	}
	return -1
}
