package postgresql

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestContainer wraps a PostgreSQL testcontainer with a connected client.
type TestContainer struct {
	Container *postgres.PostgresContainer
	Client    PostgreSQLClient
	ConnStr   string
}

// TestContainerConfig holds configuration for the test container
type TestContainerConfig struct {
	Image          string
	Database       string
	Username       string
	Password       string
	MigrationsPath string
	StartupTimeout time.Duration
}

// DefaultTestContainerConfig returns a default configuration
func DefaultTestContainerConfig() *TestContainerConfig {
	return &TestContainerConfig{
		Image:          "postgres:15-alpine",
		Database:       "test_db",
		Username:       "test_user",
		Password:       "test_pass",
		StartupTimeout: 2 * time.Minute,
	}
}

// NewTestContainer starts a PostgreSQL container and applies the *.up.sql
// files found in MigrationsPath in lexical order.
func NewTestContainer(ctx context.Context, config *TestContainerConfig) (*TestContainer, error) {
	if config == nil {
		config = DefaultTestContainerConfig()
	}

	container, err := postgres.Run(ctx, config.Image,
		postgres.WithDatabase(config.Database),
		postgres.WithUsername(config.Username),
		postgres.WithPassword(config.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(config.StartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pgxConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	pgxConfig.AfterConnect = registerTypes

	pool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	tc := &TestContainer{
		Container: container,
		Client:    &Client{pool: pool},
		ConnStr:   connStr,
	}

	if config.MigrationsPath != "" {
		if err := tc.RunMigrations(ctx, config.MigrationsPath); err != nil {
			_ = tc.Close(ctx)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return tc, nil
}

// Close closes the pool and terminates the container
func (tc *TestContainer) Close(ctx context.Context) error {
	if tc.Client != nil {
		tc.Client.Close()
	}
	if tc.Container != nil {
		if err := tc.Container.Terminate(ctx); err != nil {
			return fmt.Errorf("failed to terminate container: %w", err)
		}
	}
	return nil
}

// RunMigrations executes every *.up.sql file under migrationsPath.
func (tc *TestContainer) RunMigrations(ctx context.Context, migrationsPath string) error {
	files, err := filepath.Glob(filepath.Join(migrationsPath, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no migration files found in %s", migrationsPath)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		if _, err := tc.Client.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", filepath.Base(file), err)
		}
	}

	return nil
}

// TruncateTables empties the given tables and resets their identities.
func (tc *TestContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := tc.Client.Exec(ctx, "TRUNCATE TABLE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	return err
}
