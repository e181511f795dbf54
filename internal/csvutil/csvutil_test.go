package csvutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter("a;b;c"))
	assert.Equal(t, ',', DetectDelimiter("a,b,c"))
	// Ties favor comma.
	assert.Equal(t, ',', DetectDelimiter("a,b;c"))
	assert.Equal(t, ',', DetectDelimiter("abc"))
}

func TestSplitLine_Quoting(t *testing.T) {
	fields := SplitLine(`"a;b";c;"he said ""hi"""`, ';')
	require.Len(t, fields, 3)
	assert.Equal(t, "a;b", fields[0])
	assert.Equal(t, "c", fields[1])
	assert.Equal(t, `he said "hi"`, fields[2])
}

func TestSplitLine_TrailingEmptyField(t *testing.T) {
	fields := SplitLine("a;b;", ';')
	require.Len(t, fields, 3)
	assert.Equal(t, "", fields[2])
}

func TestLines_DropsBlank(t *testing.T) {
	lines := Lines("a\r\n\r\nb\n   \nc")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestRecords_QuotedNewline(t *testing.T) {
	content := "1;\"multi\nline\";x\r\n2;y;z\n"
	recs := Records(content, ';')
	require.Len(t, recs, 2)
	assert.Equal(t, "multi\nline", recs[0][1])
	assert.Equal(t, []string{"2", "y", "z"}, recs[1])
}

func TestRecords_SkipsAllBlankRows(t *testing.T) {
	recs := Records("a;b\n;;\n ; ; \nc;d\n", ';')
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"a", "b"}, recs[0])
	assert.Equal(t, []string{"c", "d"}, recs[1])
}

func TestField_Ragged(t *testing.T) {
	rec := []string{"a", "b"}
	assert.Equal(t, "b", Field(rec, 1))
	assert.Equal(t, "", Field(rec, 7))
	assert.Equal(t, "", Field(rec, -1))
}

func TestDecodeLatin1(t *testing.T) {
	// "Gebäude" with 0xE4 for ä, as DATEV ships it.
	raw := []byte{'G', 'e', 'b', 0xE4, 'u', 'd', 'e'}
	assert.Equal(t, "Gebäude", DecodeLatin1(raw))

	// Valid UTF-8 passes through untouched.
	assert.Equal(t, "Gebäude", DecodeLatin1([]byte("Gebäude")))
}
