// Package repository contains data access abstractions.
// Implementations live in subpackages (e.g., postgres).
package repository

import (
	"context"
	"errors"

	"attachapi/internal/model"
)

// AttachmentRepository defines persistence for attachments. No business logic here:
// classification and timestamps are decided by the caller.
type AttachmentRepository interface {
	// Create inserts a new attachment, blob included.
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)

	// FindByID returns an attachment with its blob. It returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id string) (*model.Attachment, error)

	// ListByOwner returns an owner's attachments in insertion order, without blobs.
	ListByOwner(ctx context.Context, owner model.Owner) ([]model.Attachment, error)

	// Update writes the mutable metadata of an existing attachment. Blob and
	// attached-at are never changed. It returns sql.ErrNoRows when absent.
	Update(ctx context.Context, a *model.Attachment) error

	// Delete removes an attachment by ID. It returns sql.ErrNoRows when absent.
	Delete(ctx context.Context, id string) error
}

// ErrUnknownOwnerType is returned when an owner type has no backing table.
var ErrUnknownOwnerType = errors.New("unknown owner type")
