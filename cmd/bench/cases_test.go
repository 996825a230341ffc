package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQL(t *testing.T) {
	sql := `-- toll cache
CREATE TABLE IF NOT EXISTS a (id INT);

CREATE INDEX IF NOT EXISTS a_idx ON a (id);
`
	assert.Equal(t, []string{
		"CREATE TABLE IF NOT EXISTS a (id INT)",
		"CREATE INDEX IF NOT EXISTS a_idx ON a (id)",
	}, splitSQL(sql))
}

func TestExtractTables(t *testing.T) {
	tables, err := extractTables(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	assert.Equal(t, []string{"toll_cache", "pricing_zones", "pricing_packages", "pricing_settings", "trip_analyses"}, tables)

	_, err = extractTables(filepath.Join(t.TempDir(), "missing.sql"))
	assert.True(t, os.IsNotExist(err))
}
