package db

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesCollections(t *testing.T) {
	database := NewTestDB(t)

	for _, table := range []string{"record_ids", "active_items", "sold_items"} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zbirka.sqlite3")
	ctx := context.Background()

	database, err := Open(path)
	require.NoError(t, err)
	first, err := Migrate(ctx, database)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	database, err = Open(path)
	require.NoError(t, err)
	defer database.Close()

	second, err := Migrate(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Positive(t, second)
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO active_items (id, name, condition, catalog_number, buy_price, identifier, date_added)
		 VALUES (42, 'x', 'x', 'x', '0', '036000291452', CURRENT_TIMESTAMP)`,
	)
	assert.Error(t, err, "expected insert with unknown record id to fail")
}

func TestDSNCarriesPragmasAndTimeFormat(t *testing.T) {
	dsn := DSN("zbirka.sqlite3")
	assert.True(t, strings.HasPrefix(dsn, "zbirka.sqlite3?"))
	assert.Contains(t, dsn, "_time_format=sqlite")
	assert.Contains(t, dsn, "_pragma=foreign_keys%281%29")
}

func TestPragmasApplied(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "zbirka.sqlite3"))
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))

	var timeout int
	require.NoError(t, database.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestTimesSortAsText(t *testing.T) {
	database := NewTestDB(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(500 * time.Millisecond),
		base,
		base.Add(450 * time.Millisecond),
		base.Add(time.Second),
	}
	for i, stamp := range stamps {
		_, err := database.Exec(`INSERT INTO record_ids DEFAULT VALUES`)
		require.NoError(t, err)
		_, err = database.Exec(
			`INSERT INTO active_items (id, name, condition, catalog_number, buy_price, identifier, date_added)
			 VALUES (?, 'x', 'x', 'x', '0', '036000291452', ?)`, i+1, stamp,
		)
		require.NoError(t, err)
	}

	var raw string
	require.NoError(t, database.QueryRow(`SELECT CAST(date_added AS TEXT) FROM active_items WHERE id = 1`).Scan(&raw))
	assert.Regexp(t, regexp.MustCompile(`^2024-03-01 12:00:00\.5(\+00:00|Z)$`), raw)

	rows, err := database.Query(`SELECT date_added FROM active_items ORDER BY date_added`)
	require.NoError(t, err)
	defer rows.Close()

	var got []time.Time
	for rows.Next() {
		var stamp time.Time
		require.NoError(t, rows.Scan(&stamp))
		got = append(got, stamp)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, len(stamps))
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Before(got[i]), "%v not before %v", got[i-1], got[i])
	}
	assert.True(t, got[0].Equal(base))
}
