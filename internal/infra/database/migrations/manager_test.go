package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFilesOrdersByTimestamp(t *testing.T) {
	files, err := loadFiles(updateCategory)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for i := 1; i < len(files); i++ {
		assert.False(t, files[i].Timestamp.Before(files[i-1].Timestamp))
		assert.Equal(t, updateCategory, files[i].Category)
	}

	seed, err := loadFiles(seedCategory)
	require.NoError(t, err)
	require.Len(t, seed, 1)
	assert.Contains(t, seed[0].Content, "CREATE TABLE IF NOT EXISTS orders")
}

func TestLoadFilesUnknownCategory(t *testing.T) {
	_, err := loadFiles("rollback")
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := parseTimestamp("20250601090000_schema.sql")
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
	assert.Equal(t, 9, ts.Hour())

	_, err = parseTimestamp("schema.sql")
	assert.Error(t, err)
	_, err = parseTimestamp("20251399000000_bad.sql")
	assert.Error(t, err)
}
