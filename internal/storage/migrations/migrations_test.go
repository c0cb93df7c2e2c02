package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	input := `-- header comment
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (y UInt8) ENGINE = Memory
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y UInt8) ENGINE = Memory", stmts[1])
}

func TestCheckQuotedSemicolons(t *testing.T) {
	assert.NoError(t, checkQuotedSemicolons("SELECT 'a''b'; SELECT 1;"))
	assert.ErrorIs(t, checkQuotedSemicolons("SELECT 'a;b'"), errQuotedSemicolon)
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default:@localhost:9000/molenker")
	require.NoError(t, err)
	assert.Equal(t, "molenker", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}

func TestEmbeddedFilesPresent(t *testing.T) {
	pg, err := sqlFiles(PostgresFS, "postgres")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_launches.sql"}, pg)

	ch, err := sqlFiles(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_market_snapshots.sql"}, ch)
}
