package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// OwnerLookup resolves owner references against host application tables.
// Each owner type maps to a table (optionally schema-qualified) with an id column.
type OwnerLookup struct {
	db     *sql.DB
	tables map[string]string
}

// NewOwnerLookup creates an OwnerLookup for the given owner type → table mapping.
func NewOwnerLookup(db *sql.DB, tables map[string]string) *OwnerLookup {
	return &OwnerLookup{db: db, tables: tables}
}

// ResolveOwner checks that the owner row exists. It returns repository.ErrUnknownOwnerType
// for unmapped types and sql.ErrNoRows when the row is missing.
func (l *OwnerLookup) ResolveOwner(ctx context.Context, ownerType, ownerID string) (model.Owner, error) {
	table, ok := l.tables[ownerType]
	if !ok {
		return model.Owner{}, fmt.Errorf("%w: %q", repository.ErrUnknownOwnerType, ownerType)
	}

	q := `SELECT EXISTS (SELECT 1 FROM ` + pgx.Identifier(strings.Split(table, ".")).Sanitize() + ` WHERE id::text = $1)`
	var exists bool
	if err := l.db.QueryRowContext(ctx, q, ownerID).Scan(&exists); err != nil {
		return model.Owner{}, err
	}
	if !exists {
		return model.Owner{}, sql.ErrNoRows
	}
	return model.Owner{Type: ownerType, ID: ownerID}, nil
}
