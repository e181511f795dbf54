// Package csvutil holds the CSV plumbing shared by every format reader:
// delimiter detection, quote-aware field splitting and the Latin-1 fallback
// DATEV exports need. encoding/csv is too strict for these files (ragged
// records, stray quotes mid-field), so splitting is hand-rolled.
package csvutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DetectDelimiter counts ',' and ';' in the header line; the more frequent
// one wins, ties favor ','.
func DetectDelimiter(header string) rune {
	commas := strings.Count(header, ",")
	semis := strings.Count(header, ";")
	if semis > commas {
		return ';'
	}
	return ','
}

// Lines splits content on \r?\n and drops blank lines.
func Lines(content string) []string {
	raw := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	var lines []string
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// SplitLine splits one line on delim, honoring double-quote quoting with ""
// as the escape. Fields are trimmed and surrounding quotes removed.
func SplitLine(line string, delim rune) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))
	return fields
}

// Records performs a full quote-aware scan of content: quoted fields may
// contain delimiters and line breaks. Records whose fields are all empty are
// dropped. This matches how DATEV GDPdU files must be read.
func Records(content string, delim rune) [][]string {
	var records [][]string
	var record []string
	var field strings.Builder
	inQuotes := false

	flushField := func() {
		record = append(record, strings.TrimSpace(field.String()))
		field.Reset()
	}
	flushRecord := func() {
		if field.Len() > 0 || len(record) > 0 {
			flushField()
			for _, f := range record {
				if f != "" {
					records = append(records, record)
					break
				}
			}
			record = nil
		}
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case r == delim && !inQuotes:
			flushField()
		case (r == '\n' || r == '\r') && !inQuotes:
			flushRecord()
			if r == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		default:
			field.WriteRune(r)
		}
	}
	flushRecord()

	return records
}

// Field returns record[i], or "" when the record is too short. DATEV rows
// are ragged; positional access must not panic.
func Field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// DecodeLatin1 returns content as UTF-8. Valid UTF-8 input passes through;
// anything else is treated as ISO 8859-1, which is what DATEV ships.
func DecodeLatin1(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO 8859-1 decodes any byte; unreachable in practice.
		return string(b)
	}
	return string(decoded)
}
