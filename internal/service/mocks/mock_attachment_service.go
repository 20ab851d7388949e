package mocks

import (
	"context"
	"iter"

	"attachapi/internal/form"
	"attachapi/internal/model"
	"attachapi/internal/render"
	"attachapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

var _ service.AttachmentService = (*MockAttachmentService)(nil)

func (m *MockAttachmentService) Create(ctx context.Context, ownerType, ownerID string, sub *form.Submission) (*model.Attachment, error) {
	args := m.Called(ctx, ownerType, ownerID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Save(ctx context.Context, a *model.Attachment, up *service.Upload) error {
	args := m.Called(ctx, a, up)
	return args.Error(0)
}

func (m *MockAttachmentService) Get(ctx context.Context, id string) (*model.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ListForOwner(ctx context.Context, owner model.Owner) ([]model.Attachment, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ListForOwners(ctx context.Context, owners iter.Seq[model.Owner]) iter.Seq2[model.Attachment, error] {
	args := m.Called(ctx, owners)
	return args.Get(0).(iter.Seq2[model.Attachment, error])
}

func (m *MockAttachmentService) Render(ctx context.Context, id string, action render.Action) (*model.Attachment, []byte, error) {
	args := m.Called(ctx, id, action)
	var a *model.Attachment
	if v := args.Get(0); v != nil {
		a = v.(*model.Attachment)
	}
	var out []byte
	if v := args.Get(1); v != nil {
		out = v.([]byte)
	}
	return a, out, args.Error(2)
}

func (m *MockAttachmentService) EditDescription(ctx context.Context, id, description string) error {
	args := m.Called(ctx, id, description)
	return args.Error(0)
}

func (m *MockAttachmentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
