package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type step struct {
	Name string
	SQL  string
}

// steps are idempotent; they run in order on an empty schema.
var steps = []step{
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  seq             BIGSERIAL    NOT NULL,
  id              UUID         PRIMARY KEY,
  owner_type      TEXT         NOT NULL,
  owner_id        TEXT         NOT NULL,
  mimetype        VARCHAR(120) NOT NULL,
  attachment_type SMALLINT     NOT NULL CHECK (attachment_type IN (1, 2)),
  description     VARCHAR(256) NULL,
  tag             TEXT         NULL,
  attachment      BYTEA        NOT NULL,
  file_name       VARCHAR(256) NOT NULL,
  attached_at     TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_owner",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_owner ON attachments (owner_type, owner_id);`,
	},
	{
		Name: "create_index_attachments_seq",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_attachments_seq ON attachments (seq);`,
	},
	{
		Name: "create_index_attachments_attached_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_attached_at ON attachments (attached_at);`,
	},
}

const sentinelQuery = "SELECT to_regclass('public.attachments') IS NOT NULL"

// EnsureMigrated creates the attachments schema unless the table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))

	for _, s := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", s.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", s.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", s.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
