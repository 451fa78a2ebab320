package migrationpg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
)

// Migration is one NNNN_name.up.sql / NNNN_name.down.sql pair.
type Migration struct {
	ID      string
	Name    string
	UpSQL   string
	DownSQL string
}

// Config for migration runner
type Config struct {
	MigrationDir string `env:"DIR" envDefault:"migrations"`
	Schema       string `env:"SCHEMA" envDefault:"public"`
	TableName    string `env:"TABLE" envDefault:"schema_migrations"`
}

// Runner applies and reverts migrations, tracking them in a bookkeeping table.
type Runner struct {
	client postgresql.PostgreSQLClient
	tx     postgresql.Transaction
	logger logger.Interface
	config Config
}

// NewRunner creates a new migration runner for PostgreSQL
func NewRunner(client postgresql.PostgreSQLClient, log logger.Interface, config Config) *Runner {
	if config.Schema == "" {
		config.Schema = "public"
	}
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}

	return &Runner{
		client: client,
		tx:     postgresql.NewTransaction(client),
		logger: log,
		config: config,
	}
}

func (r *Runner) table() string {
	return r.config.Schema + "." + r.config.TableName
}

// EnsureMigrationTable creates the bookkeeping table if it does not exist.
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`, r.table()))
	return err
}

// GetAppliedMigrations returns the set of applied migration IDs.
func (r *Runner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s", r.table()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations reads every *.up.sql file, with its optional .down.sql
// sibling, in lexical order.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(r.config.MigrationDir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		migration, err := parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, nil
}

func parseMigrationFiles(upFilePath string) (Migration, error) {
	upContent, err := os.ReadFile(upFilePath)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(filepath.Base(upFilePath), ".up.sql")
	name := id
	if parts := strings.SplitN(id, "_", 2); len(parts) == 2 {
		name = parts[1]
	}

	var downSQL string
	if downContent, err := os.ReadFile(strings.TrimSuffix(upFilePath, ".up.sql") + ".down.sql"); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:      id,
		Name:    name,
		UpSQL:   strings.TrimSpace(string(upContent)),
		DownSQL: downSQL,
	}, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			r.logger.Warn("migration has no up sql", logger.Field{Key: "migration", Value: migration.ID})
			continue
		}

		err := postgresql.WithTx(ctx, r.tx, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name, applied_at) VALUES ($1, $2, NOW())", r.table()),
				migration.ID, migration.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.ID, err)
		}

		r.logger.Info("applied migration", logger.Field{Key: "migration", Value: migration.ID})
	}

	return nil
}

// MigrateDown reverts the last steps applied migrations.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", migration.ID)
		}

		err := postgresql.WithTx(ctx, r.tx, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table()), migration.ID)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", migration.ID, err)
		}

		r.logger.Info("reverted migration", logger.Field{Key: "migration", Value: migration.ID})
	}

	return nil
}
