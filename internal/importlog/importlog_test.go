package importlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 4, 1, 12, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Source:    "datev_gdpdu",
		ImportRef: "datev_gdpdu_2024_abcd1234",
		File:      "buchungen_2024.csv",
		Imported:  120,
		Skipped:   3,
		Errors:    1,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	err := Append(dir, []Entry{testEntry()})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "datev_gdpdu", entries[0].Source)
	assert.Equal(t, 120, entries[0].Imported)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Source = "qonto"
	e2.ImportRef = "qonto_2024_ffff0000"
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "datev_gdpdu", entries[0].Source)
	assert.Equal(t, "qonto", entries[1].Source)
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	raw, err := os.ReadFile(filepath.Join(dir, "logs", "import-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(raw), "timestamp,source"))
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := testEntry()
	require.NoError(t, Append(dir, []Entry{want}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, want, entries[0])
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_BadCounts(t *testing.T) {
	rec := MarshalEntry(testEntry())
	rec[colImported] = "many"
	_, err := UnmarshalEntry(rec)
	assert.Error(t, err)
}
