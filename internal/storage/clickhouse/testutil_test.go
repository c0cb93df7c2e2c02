package clickhouse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a ClickHouse container, applies the snapshot schema and
// returns a connection. Cleanup is registered on t.
func setupTestDB(t *testing.T) *Conn {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.1-alpine",
			ExposedPorts: []string{"9000/tcp", "8123/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Application: Ready for connections").
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("9000/tcp"),
			),
			Env: map[string]string{
				"CLICKHOUSE_DB":       "test",
				"CLICKHOUSE_USER":     "default",
				"CLICKHOUSE_PASSWORD": "",
			},
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	conn, err := NewConn(ctx, fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port()))
	require.NoError(t, err)

	// The migrations package imports this one, so the schema is read from disk.
	schema, err := os.ReadFile(filepath.Join("..", "migrations", "clickhouse", "001_market_snapshots.sql"))
	require.NoError(t, err)
	require.NoError(t, conn.Exec(ctx, string(schema)))

	t.Cleanup(func() {
		conn.Close()
		_ = container.Terminate(ctx)
	})

	return conn
}
