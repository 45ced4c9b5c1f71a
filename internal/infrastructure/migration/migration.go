package migration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema of the sections store in the order it is applied.
var Migrations = []Migration{
	{
		Name: "create_sections",
		SQL: `
		CREATE TABLE IF NOT EXISTS sections (
			id           TEXT PRIMARY KEY,
			type         TEXT NOT NULL,
			rank         BIGINT NOT NULL,
			doc          JSONB NOT NULL,
			technologies TEXT[],
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`,
	},
	{
		Name: "index_sections_rank",
		SQL:  `CREATE INDEX IF NOT EXISTS sections_rank_idx ON sections (rank);`,
	},
}

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	return run(ctx, func(ctx context.Context, sql string) error {
		_, err := pool.Exec(ctx, sql)
		return err
	}, Migrations, log)
}

func run(ctx context.Context, exec func(context.Context, string) error, migrations []Migration, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("Starting database migrations")
	for _, m := range migrations {
		if err := exec(ctx, m.SQL); err != nil {
			log.Error("Migration failed", zap.String("name", m.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		log.Info("Migration completed", zap.String("name", m.Name))
	}
	log.Info("All migrations completed successfully")
	return nil
}
