package migration

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEnsureMigrated(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(mock sqlmock.Sqlmock)
		wantErr    string
		wantEvent  string
	}{
		{
			name: "schema exists, skip",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantEvent: "db_migration_skip",
		},
		{
			name: "fresh schema runs every step",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS attachments").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_attachments_owner").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS idx_attachments_seq").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_attachments_attached_at").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantEvent: "db_migration_success",
		},
		{
			name: "sentinel check fails",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr:   "failed to check sentinel table: connection refused",
			wantEvent: "db_migration_failed",
		},
		{
			name: "step fails and stops",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS attachments").
					WillReturnError(errors.New("permission denied"))
			},
			wantErr:   "migration step create_table_attachments failed: permission denied",
			wantEvent: "db_migration_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMocks(mock)

			core, logs := observer.New(zap.InfoLevel)
			err = EnsureMigrated(context.Background(), db, zap.New(core), "db.local")

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())

			entries := logs.FilterMessage(tt.wantEvent).All()
			require.NotEmpty(t, entries)
			assert.Equal(t, "db.local", entries[0].ContextMap()["db_host"])
		})
	}
}
