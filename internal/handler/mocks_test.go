package handler_test

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
	"github.com/zulqarnainhdr514/storage-management/internal/session"
)

// MockAuthService is a mock implementation of handler.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, fullName, email string) (*auth.SignUpResult, error) {
	args := m.Called(ctx, fullName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SignUpResult), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email string) (*auth.SignInResult, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SignInResult), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, params auth.VerifyParams) (*auth.VerifyResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.VerifyResult), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, secret string) (*profile.Record, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Record), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, secret string) {
	m.Called(ctx, secret)
}

// MockFileService is a mock implementation of handler.FileService.
type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) Upload(ctx context.Context, actor files.Actor, fh *multipart.FileHeader) (*files.Record, error) {
	args := m.Called(ctx, actor, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockFileService) List(ctx context.Context, actor files.Actor, params files.ListParams) ([]files.Record, error) {
	args := m.Called(ctx, actor, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]files.Record), args.Error(1)
}

func (m *MockFileService) Get(ctx context.Context, actor files.Actor, id bson.ObjectID) (*files.Record, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockFileService) Rename(ctx context.Context, actor files.Actor, id bson.ObjectID, name string) (*files.Record, error) {
	args := m.Called(ctx, actor, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockFileService) Share(ctx context.Context, actor files.Actor, id bson.ObjectID, emails []string) (*files.Record, error) {
	args := m.Called(ctx, actor, id, emails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockFileService) Unshare(ctx context.Context, actor files.Actor, id bson.ObjectID, email string) (*files.Record, error) {
	args := m.Called(ctx, actor, id, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Record), args.Error(1)
}

func (m *MockFileService) Delete(ctx context.Context, actor files.Actor, id bson.ObjectID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockFileService) Usage(ctx context.Context, actor files.Actor) (*files.Usage, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*files.Usage), args.Error(1)
}

// fakeCarrier stores the secret in a plain cookie so tests can observe the
// session lifecycle on the wire without the encryption layer.
type fakeCarrier struct {
	name string
}

func newFakeCarrier() *fakeCarrier {
	return &fakeCarrier{name: "session"}
}

func (c *fakeCarrier) Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", session.ErrNoSession
	}
	return cookie.Value, nil
}

func (c *fakeCarrier) Write(w http.ResponseWriter, secret string) error {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    secret,
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
	})
	return nil
}

func (c *fakeCarrier) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   c.name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
