package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	input := `[
		{"participant_id": "P001", "sleep_quality": 7, "notes": "fine"},
		{"participant_id": "P002", "sleep_quality": "8"}
	]`

	loader := NewLoader(nil)
	records, err := loader.LoadJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "P001", records[0].Get("participant_id").Raw())
	q, ok := records[0].Get("sleep_quality").Float()
	require.True(t, ok)
	assert.Equal(t, 7.0, q)

	// String-typed numbers still coerce downstream
	q, ok = records[1].Get("sleep_quality").Float()
	require.True(t, ok)
	assert.Equal(t, 8.0, q)
}

func TestLoadJSONInvalid(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.LoadJSON(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}

func TestLoadCSV(t *testing.T) {
	input := "participant_id,sleep_quality,notes\n" +
		"P001,7,slept well\n" +
		"P002,,\n" +
		",,\n"

	loader := NewLoader(nil)
	records, err := loader.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	// The all-blank row is dropped entirely
	require.Len(t, records, 2)

	assert.Equal(t, "P001", records[0].Get("participant_id").Raw())
	assert.Equal(t, "slept well", records[0].Get("notes").Raw())

	// Blank cells behave like missing fields
	assert.True(t, records[1].Get("sleep_quality").IsAbsent())
	assert.True(t, records[1].Has("participant_id"))
}

func TestLoadCSVWithBOM(t *testing.T) {
	input := "\xEF\xBB\xBFparticipant_id,score\nP001,80\n"

	loader := NewLoader(nil)
	records, err := loader.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Has("participant_id"))
}

func TestLoadCSVRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n1,2,3,4\n"

	loader := NewLoader(nil)
	records, err := loader.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.False(t, records[0].Has("c"))
	// Cells past the header width are dropped
	assert.Equal(t, 3, records[1].Len())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("participant_id\nP001\n"), 0o644))

	loader := NewLoader(nil)
	records, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	t.Run("unsupported extension", func(t *testing.T) {
		bad := filepath.Join(dir, "export.txt")
		require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
		_, err := loader.LoadFile(bad)
		assert.ErrorContains(t, err, "unsupported records format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadFile(filepath.Join(dir, "nope.csv"))
		assert.Error(t, err)
	})
}
