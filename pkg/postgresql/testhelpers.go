package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper ties a TestContainer to the lifetime of a test.
type TestHelper struct {
	Container *TestContainer
	T         testing.TB
}

// NewTestHelperWithMigrations starts a container, applies migrations and
// registers cleanup on t.
func NewTestHelperWithMigrations(t testing.TB, migrationsPath string) *TestHelper {
	t.Helper()

	config := DefaultTestContainerConfig()
	config.MigrationsPath = migrationsPath

	ctx := context.Background()
	container, err := NewTestContainer(ctx, config)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Close(context.Background())
	})

	return &TestHelper{Container: container, T: t}
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() PostgreSQLClient {
	return h.Container.Client
}

// CleanupTables truncates the given tables between tests
func (h *TestHelper) CleanupTables(tables ...string) {
	require.NoError(h.T, h.Container.TruncateTables(context.Background(), tables...))
}

// ExecuteSQL executes SQL and fails test on error
func (h *TestHelper) ExecuteSQL(sql string, args ...any) {
	_, err := h.Container.Client.Exec(context.Background(), sql, args...)
	require.NoError(h.T, err)
}
