package db

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	got, err := migrateURL("postgres://u:p@localhost:5432/printhub?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://u:p@localhost:5432/printhub?sslmode=disable", got)

	got, err = migrateURL("postgresql://localhost/printhub")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://localhost/printhub", got)

	_, err = migrateURL("host=localhost dbname=printhub")
	assert.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(entries), 4)
}

func TestMigrateUp_Idempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, MigrateUp(dsn))
	require.NoError(t, MigrateUp(dsn))

	v, dirty, err := Version(dsn)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.EqualValues(t, 2, v)
}

func TestConnect_EmptyDSN(t *testing.T) {
	_, err := Connect("")
	assert.Error(t, err)
}
