package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/google/uuid"

	"attachapi/internal/classifier"
	"attachapi/internal/form"
	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/repository"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrNotFound         = errors.New("attachment not found")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrUploadTooLarge   = errors.New("upload exceeds size limit")
	ErrContentImmutable = errors.New("attachment content cannot be replaced")
)

// OwnerResolver is supplied by the host application to validate owner references.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, ownerType, ownerID string) (model.Owner, error)
}

// Upload is a named binary payload. Reader is read fully into memory on save.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Options tunes the attachment service.
type Options struct {
	// MaxUploadBytes bounds the buffered blob size. Zero or negative means unbounded.
	MaxUploadBytes int64
}

// AttachmentService defines the use cases for handling attachments.
type AttachmentService interface {
	// Create resolves the owner and stores the submitted file. An empty submission
	// creates nothing and returns (nil, nil).
	Create(ctx context.Context, ownerType, ownerID string, sub *form.Submission) (*model.Attachment, error)

	// Save classifies a.FileName (taken from up when given), overwrites MimeType and Kind,
	// buffers the upload and inserts or updates the record.
	Save(ctx context.Context, a *model.Attachment, up *Upload) error

	// Get returns an attachment with its blob.
	Get(ctx context.Context, id string) (*model.Attachment, error)

	// ListForOwner returns an owner's attachments in insertion order, without blobs.
	ListForOwner(ctx context.Context, owner model.Owner) ([]model.Attachment, error)

	// ListForOwners lazily flattens attachments across owners, in owner order.
	ListForOwners(ctx context.Context, owners iter.Seq[model.Owner]) iter.Seq2[model.Attachment, error]

	// Render loads an attachment and produces the bytes for action.
	Render(ctx context.Context, id string, action render.Action) (*model.Attachment, []byte, error)

	// EditDescription replaces the description of an attachment.
	EditDescription(ctx context.Context, id, description string) error

	// Delete removes an attachment by ID.
	Delete(ctx context.Context, id string) error
}

// attachmentService is a concrete implementation of AttachmentService.
type attachmentService struct {
	repo   repository.AttachmentRepository
	owners OwnerResolver
	opts   Options
}

// NewAttachmentService constructs a new AttachmentService.
func NewAttachmentService(repo repository.AttachmentRepository, owners OwnerResolver, opts Options) AttachmentService {
	return &attachmentService{repo: repo, owners: owners, opts: opts}
}

func (s *attachmentService) Create(ctx context.Context, ownerType, ownerID string, sub *form.Submission) (*model.Attachment, error) {
	if sub == nil || sub.Empty() {
		return nil, nil
	}

	owner, err := s.owners.ResolveOwner(ctx, ownerType, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrUnknownOwnerType) {
			return nil, fmt.Errorf("%w: %s/%s", ErrOwnerNotFound, ownerType, ownerID)
		}
		return nil, fmt.Errorf("resolve owner: %w", err)
	}

	a := &model.Attachment{
		OwnerType:   owner.Type,
		OwnerID:     owner.ID,
		Description: sub.Description,
		Tag:         sub.Tag,
	}
	if err := s.Save(ctx, a, &Upload{Filename: sub.File.Name, Reader: sub.File.Content}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *attachmentService) Save(ctx context.Context, a *model.Attachment, up *Upload) error {
	if up != nil {
		if a.ID != "" {
			return ErrContentImmutable
		}
		a.FileName = up.Filename
	}

	// Caller-supplied MimeType and Kind are always replaced.
	mime, kind, err := classifier.Classify(a.FileName)
	if err != nil {
		return err
	}
	a.MimeType = mime
	a.Kind = kind

	if up != nil && up.Reader != nil {
		data, err := s.buffer(up.Reader)
		if err != nil {
			return err
		}
		a.Blob = data
	}

	if a.ID != "" {
		if err := s.repo.Update(ctx, a); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("update attachment: %w", err)
		}
		return nil
	}

	a.ID = uuid.NewString()
	a.AttachedAt = time.Now().UTC()
	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		a.ID = ""
		return fmt.Errorf("db save failed: %w", err)
	}
	if !stored.AttachedAt.IsZero() {
		a.AttachedAt = stored.AttachedAt
	}
	return nil
}

func (s *attachmentService) buffer(r io.Reader) ([]byte, error) {
	if s.opts.MaxUploadBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrUploadTooLarge, s.opts.MaxUploadBytes)
	}
	return data, nil
}

func (s *attachmentService) Get(ctx context.Context, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *attachmentService) ListForOwner(ctx context.Context, owner model.Owner) ([]model.Attachment, error) {
	return s.repo.ListByOwner(ctx, owner)
}

func (s *attachmentService) ListForOwners(ctx context.Context, owners iter.Seq[model.Owner]) iter.Seq2[model.Attachment, error] {
	return func(yield func(model.Attachment, error) bool) {
		for owner := range owners {
			items, err := s.repo.ListByOwner(ctx, owner)
			if err != nil {
				yield(model.Attachment{}, fmt.Errorf("list attachments for %s/%s: %w", owner.Type, owner.ID, err))
				return
			}
			for _, a := range items {
				if !yield(a, nil) {
					return
				}
			}
		}
	}
}

func (s *attachmentService) Render(ctx context.Context, id string, action render.Action) (*model.Attachment, []byte, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	out, err := render.New(a).Render(action)
	if err != nil {
		return nil, nil, err
	}
	return a, out, nil
}

// EditDescription saves through Save, so MimeType and Kind are re-derived from the file name.
func (s *attachmentService) EditDescription(ctx context.Context, id, description string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	a.Description = &description
	return s.Save(ctx, a, nil)
}

func (s *attachmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
