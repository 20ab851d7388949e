package postgres

import (
	"context"
	"database/sql"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

// Create inserts a new attachment row and returns the stored record without its blob.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, owner_type, owner_id, mimetype, attachment_type, description, tag, attachment, file_name, attached_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, owner_type, owner_id, mimetype, attachment_type, description, tag, file_name, attached_at
	`
	owner := a.Owner()
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		owner.Type,
		owner.ID,
		string(a.MimeType),
		int(a.Kind),
		a.Description,
		a.Tag,
		a.Blob,
		a.FileName,
		a.AttachedAt,
	)
	var out model.Attachment
	if err := row.Scan(
		&out.ID,
		&out.OwnerType,
		&out.OwnerID,
		&out.MimeType,
		&out.Kind,
		&out.Description,
		&out.Tag,
		&out.FileName,
		&out.AttachedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single attachment, blob included.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `
		SELECT id, owner_type, owner_id, mimetype, attachment_type, description, tag, attachment, file_name, attached_at
		FROM attachments
		WHERE id = $1
	`
	var a model.Attachment
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.OwnerType,
		&a.OwnerID,
		&a.MimeType,
		&a.Kind,
		&a.Description,
		&a.Tag,
		&a.Blob,
		&a.FileName,
		&a.AttachedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByOwner returns attachments of one owner in insertion order. The blob column is not selected.
func (r *AttachmentPostgres) ListByOwner(ctx context.Context, owner model.Owner) ([]model.Attachment, error) {
	const q = `
		SELECT id, owner_type, owner_id, mimetype, attachment_type, description, tag, file_name, attached_at
		FROM attachments
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, q, owner.Type, owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.OwnerType,
			&a.OwnerID,
			&a.MimeType,
			&a.Kind,
			&a.Description,
			&a.Tag,
			&a.FileName,
			&a.AttachedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update rewrites the metadata columns. Blob and attached_at are left untouched.
func (r *AttachmentPostgres) Update(ctx context.Context, a *model.Attachment) error {
	const q = `
		UPDATE attachments
		SET description = $2, tag = $3, file_name = $4, mimetype = $5, attachment_type = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.Description,
		a.Tag,
		a.FileName,
		string(a.MimeType),
		int(a.Kind),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes an attachment by ID.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM attachments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
