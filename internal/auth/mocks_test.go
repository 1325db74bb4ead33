package auth

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zulqarnainhdr514/storage-management/internal/directory"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
)

// MockDirectory is a mock implementation of Directory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) CreateChallenge(ctx context.Context, accountID, email string) (string, error) {
	args := m.Called(ctx, accountID, email)
	return args.String(0), args.Error(1)
}

func (m *MockDirectory) CreateSession(ctx context.Context, accountID, passcode string) (*directory.Session, error) {
	args := m.Called(ctx, accountID, passcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Session), args.Error(1)
}

func (m *MockDirectory) CurrentIdentity(ctx context.Context, secret string) (*directory.Identity, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Identity), args.Error(1)
}

func (m *MockDirectory) DeleteSession(ctx context.Context, secret string) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// MockProfileStore is a mock implementation of ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) FindByEmail(ctx context.Context, email string) (*profile.Record, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Record), args.Error(1)
}

func (m *MockProfileStore) FindByAccountID(ctx context.Context, accountID string) (*profile.Record, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Record), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, rec *profile.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockProfileStore) UpdateAccountID(ctx context.Context, id profile.RecordID, accountID string) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}
