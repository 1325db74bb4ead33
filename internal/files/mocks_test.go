package files_test

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/storage"
)

// MockStore is a mock implementation of files.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, rec *files.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) FindByID(ctx context.Context, id bson.ObjectID) (*files.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockStore) ListVisible(ctx context.Context, accountID, email string, params files.ListParams) ([]files.Record, error) {
	args := m.Called(ctx, accountID, email, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]files.Record), args.Error(1)
}

func (m *MockStore) UpdateName(ctx context.Context, id bson.ObjectID, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockStore) UpdateSharedWith(ctx context.Context, id bson.ObjectID, emails []string) error {
	args := m.Called(ctx, id, emails)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id bson.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Summarize(ctx context.Context, accountID string) ([]files.CategoryUsage, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]files.CategoryUsage), args.Error(1)
}

// MockBlob is a mock implementation of files.Blob.
type MockBlob struct {
	mock.Mock
}

func (m *MockBlob) Save(ctx context.Context, fh *multipart.FileHeader, key string) (*storage.Object, error) {
	args := m.Called(ctx, fh, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Object), args.Error(1)
}

func (m *MockBlob) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockBlob) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockNotifier is a mock implementation of files.Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyShared(ctx context.Context, recipients []string, sharerName, fileName, fileURL string) error {
	args := m.Called(ctx, recipients, sharerName, fileName, fileURL)
	return args.Error(0)
}
