package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/jpeg"
	"slices"
	"strings"
	"testing"

	"attachapi/internal/classifier"
	"attachapi/internal/form"
	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/repository"
	repoMocks "attachapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAttachmentService_Save(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		opts       Options
		attachment *model.Attachment
		upload     *Upload
		setupMocks func(mRepo *repoMocks.MockAttachmentRepository)
		wantErr    error
		check      func(t *testing.T, a *model.Attachment)
	}{
		{
			name:       "new record overwrites caller mime type",
			attachment: &model.Attachment{OwnerType: "second", OwnerID: "1", MimeType: "text/plain", Kind: model.KindImage, FileName: "x.doc", Blob: []byte("xxx")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.ID != "" && a.MimeType == model.MimeWord && a.Kind == model.KindDocument && !a.AttachedAt.IsZero()
				})).Return(&model.Attachment{}, nil)
			},
			check: func(t *testing.T, a *model.Attachment) {
				assert.Equal(t, model.MimeWord, a.MimeType)
				assert.Equal(t, model.KindDocument, a.Kind)
				assert.NotEmpty(t, a.ID)
			},
		},
		{
			name:       "upload supplies file name and blob",
			attachment: &model.Attachment{FileName: "ignored.pdf"},
			upload:     &Upload{Filename: "photo.JPG", Reader: strings.NewReader("jpeg bytes")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.FileName == "photo.JPG" && string(a.Blob) == "jpeg bytes"
				})).Return(&model.Attachment{}, nil)
			},
			check: func(t *testing.T, a *model.Attachment) {
				assert.Equal(t, model.MimeJPEG, a.MimeType)
				assert.Equal(t, model.KindImage, a.Kind)
			},
		},
		{
			name:       "unsupported file type writes nothing",
			attachment: &model.Attachment{FileName: "something.xml", Blob: []byte("<x/>")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {},
			wantErr:    classifier.ErrUnsupportedFileType,
		},
		{
			name:       "upload over limit",
			opts:       Options{MaxUploadBytes: 4},
			attachment: &model.Attachment{},
			upload:     &Upload{Filename: "big.pdf", Reader: strings.NewReader("12345")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {},
			wantErr:    ErrUploadTooLarge,
		},
		{
			name:       "upload at limit",
			opts:       Options{MaxUploadBytes: 5},
			attachment: &model.Attachment{},
			upload:     &Upload{Filename: "ok.pdf", Reader: strings.NewReader("12345")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(&model.Attachment{}, nil)
			},
		},
		{
			name:       "existing record updates metadata",
			attachment: &model.Attachment{ID: "existing", FileName: "x.pdf", MimeType: "bogus"},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.ID == "existing" && a.MimeType == model.MimePDF
				})).Return(nil)
			},
		},
		{
			name:       "existing record rejects new content",
			attachment: &model.Attachment{ID: "existing", FileName: "x.pdf"},
			upload:     &Upload{Filename: "y.pdf", Reader: strings.NewReader("new")},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {},
			wantErr:    ErrContentImmutable,
		},
		{
			name:       "existing record missing",
			attachment: &model.Attachment{ID: "gone", FileName: "x.pdf"},
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Update", ctx, mock.Anything).Return(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAttachmentRepository)
			svc := NewAttachmentService(mRepo, nil, tt.opts)
			tt.setupMocks(mRepo)

			err := svc.Save(ctx, tt.attachment, tt.upload)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				if tt.check != nil {
					tt.check(t, tt.attachment)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_Save_RepositoryError(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAttachmentRepository)
	svc := NewAttachmentService(mRepo, nil, Options{})

	mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))

	a := &model.Attachment{FileName: "x.pdf"}
	err := svc.Save(ctx, a, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db save failed: db fail")
	assert.Empty(t, a.ID)
}

func TestAttachmentService_Create(t *testing.T) {
	ctx := context.Background()
	owner := model.Owner{Type: "person", ID: "5"}

	t.Run("report.pdf with description", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		mOwners := new(repoMocks.MockOwnerResolver)
		svc := NewAttachmentService(mRepo, mOwners, Options{})

		mOwners.On("ResolveOwner", ctx, "person", "5").Return(owner, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
			return a.OwnerType == "person" && a.OwnerID == "5" &&
				a.MimeType == model.MimePDF && a.Kind == model.KindDocument &&
				a.Description != nil && *a.Description == "Q1 report" &&
				a.FileName == "report.pdf" && string(a.Blob) == "%PDF-1.4"
		})).Return(&model.Attachment{}, nil)

		sub, err := form.Validate(form.VariantOptional, form.Input{
			Description: "Q1 report",
			File:        &form.File{Name: "report.pdf", Content: strings.NewReader("%PDF-1.4")},
		})
		require.NoError(t, err)

		a, err := svc.Create(ctx, "person", "5", sub)
		require.NoError(t, err)
		assert.Equal(t, model.MimePDF, a.MimeType)
		mRepo.AssertExpectations(t)
		mOwners.AssertExpectations(t)
	})

	t.Run("empty submission creates nothing", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		mOwners := new(repoMocks.MockOwnerResolver)
		svc := NewAttachmentService(mRepo, mOwners, Options{})

		sub, err := form.Validate(form.VariantOptional, form.Input{})
		require.NoError(t, err)

		a, err := svc.Create(ctx, "person", "5", sub)
		assert.NoError(t, err)
		assert.Nil(t, a)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mOwners.AssertNotCalled(t, "ResolveOwner", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("archive.zip is rejected before insert", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		mOwners := new(repoMocks.MockOwnerResolver)
		svc := NewAttachmentService(mRepo, mOwners, Options{})

		mOwners.On("ResolveOwner", ctx, "person", "5").Return(owner, nil)

		sub := &form.Submission{File: &form.File{Name: "archive.zip", Content: strings.NewReader("PK")}}
		a, err := svc.Create(ctx, "person", "5", sub)

		assert.ErrorIs(t, err, classifier.ErrUnsupportedFileType)
		assert.Nil(t, a)
		mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("owner not found", func(t *testing.T) {
		for _, ownerErr := range []error{sql.ErrNoRows, repository.ErrUnknownOwnerType} {
			mOwners := new(repoMocks.MockOwnerResolver)
			svc := NewAttachmentService(new(repoMocks.MockAttachmentRepository), mOwners, Options{})
			mOwners.On("ResolveOwner", ctx, "person", "404").Return(model.Owner{}, ownerErr)

			sub := &form.Submission{File: &form.File{Name: "a.pdf", Content: strings.NewReader("x")}}
			_, err := svc.Create(ctx, "person", "404", sub)
			assert.ErrorIs(t, err, ErrOwnerNotFound)
		}
	})
}

func TestAttachmentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockAttachmentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Attachment{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAttachmentRepository)
			svc := NewAttachmentService(mRepo, nil, Options{})
			tt.setupMocks(mRepo)

			a, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, a)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, a.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_ListForOwners(t *testing.T) {
	ctx := context.Background()
	first := model.Owner{Type: "first", ID: "1"}
	second := model.Owner{Type: "second", ID: "2"}

	t.Run("flattens in owner order", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mRepo, nil, Options{})

		mRepo.On("ListByOwner", ctx, first).Return([]model.Attachment{{ID: "a"}, {ID: "b"}}, nil)
		mRepo.On("ListByOwner", ctx, second).Return([]model.Attachment{{ID: "c"}}, nil)

		var ids []string
		for a, err := range svc.ListForOwners(ctx, slices.Values([]model.Owner{first, second})) {
			require.NoError(t, err)
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
		mRepo.AssertExpectations(t)
	})

	t.Run("lazy", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mRepo, nil, Options{})

		mRepo.On("ListByOwner", ctx, first).Return([]model.Attachment{{ID: "a"}, {ID: "b"}}, nil)

		for a, err := range svc.ListForOwners(ctx, slices.Values([]model.Owner{first, second})) {
			require.NoError(t, err)
			assert.Equal(t, "a", a.ID)
			break
		}
		mRepo.AssertNotCalled(t, "ListByOwner", ctx, second)
	})

	t.Run("error stops iteration", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mRepo, nil, Options{})

		mRepo.On("ListByOwner", ctx, first).Return(nil, errors.New("db fail"))

		var errs int
		for _, err := range svc.ListForOwners(ctx, slices.Values([]model.Owner{first, second})) {
			assert.Error(t, err)
			errs++
		}
		assert.Equal(t, 1, errs)
		mRepo.AssertNotCalled(t, "ListByOwner", ctx, second)
	})
}

func TestAttachmentService_Render(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 400, 200)), nil))

	mRepo := new(repoMocks.MockAttachmentRepository)
	svc := NewAttachmentService(mRepo, nil, Options{})
	mRepo.On("FindByID", ctx, "img").Return(&model.Attachment{ID: "img", FileName: "photo.JPG", MimeType: model.MimeJPEG, Kind: model.KindImage, Blob: buf.Bytes()}, nil)
	mRepo.On("FindByID", ctx, "doc").Return(&model.Attachment{ID: "doc", FileName: "x.pdf", MimeType: model.MimePDF, Kind: model.KindDocument, Blob: []byte("%PDF")}, nil)

	a, out, err := svc.Render(ctx, "img", render.ActionThumbnail)
	require.NoError(t, err)
	assert.Equal(t, model.MimeJPEG, a.MimeType)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.LessOrEqual(t, cfg.Width, 100)
	assert.LessOrEqual(t, cfg.Height, 100)

	_, _, err = svc.Render(ctx, "doc", render.ActionPreview)
	assert.ErrorIs(t, err, render.ErrDecode)

	_, out, err = svc.Render(ctx, "doc", render.ActionDownload)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
}

func TestAttachmentService_EditDescription(t *testing.T) {
	ctx := context.Background()

	t.Run("updates description only", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mRepo, nil, Options{})

		stored := &model.Attachment{ID: "id", FileName: "x.doc", MimeType: model.MimeWord, Kind: model.KindDocument, Description: strPtr("old"), Tag: strPtr("t")}
		mRepo.On("FindByID", ctx, "id").Return(stored, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
			return a.ID == "id" && *a.Description == "new" && *a.Tag == "t" && a.FileName == "x.doc" && a.MimeType == model.MimeWord
		})).Return(nil)

		require.NoError(t, svc.EditDescription(ctx, "id", "new"))
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockAttachmentRepository)
		svc := NewAttachmentService(mRepo, nil, Options{})
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.EditDescription(ctx, "missing", "x"), ErrNotFound)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockAttachmentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Delete", ctx, "valid-id").Return(nil)
			},
		},
		{
			name:       "validation - empty id",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockAttachmentRepository) {
				mRepo.On("Delete", ctx, "missing-id").Return(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAttachmentRepository)
			svc := NewAttachmentService(mRepo, nil, Options{})
			tt.setupMocks(mRepo)

			err := svc.Delete(ctx, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
