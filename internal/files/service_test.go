package files_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/storage"
	"github.com/zulqarnainhdr514/storage-management/internal/validator"
)

var owner = files.Actor{
	AccountID: "acct-1",
	Email:     "owner@example.com",
	Name:      "Ana Owner",
}

func createFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestService_Upload(t *testing.T) {
	t.Parallel()

	t.Run("stores content then metadata", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		fh := createFileHeader(t, "Q3 Report.pdf", []byte("%PDF-1.4 content"))

		store.On("Summarize", mock.Anything, "acct-1").Return([]files.CategoryUsage{}, nil)
		blob.On("Save", mock.Anything, fh, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "files/acct-1/") && strings.HasSuffix(key, ".pdf")
		})).Return(&storage.Object{Key: "files/acct-1/abc.pdf", Size: fh.Size}, nil)
		blob.On("URL", "files/acct-1/abc.pdf").Return("https://cdn.example.com/files/acct-1/abc.pdf")
		store.On("Insert", mock.Anything, mock.MatchedBy(func(rec *files.Record) bool {
			return rec.OwnerID == "acct-1" &&
				rec.Name == "Q3 Report.pdf" &&
				rec.Category == files.CategoryDocument &&
				rec.Extension == "pdf" &&
				rec.URL == "https://cdn.example.com/files/acct-1/abc.pdf"
		})).Return(nil)

		svc := files.NewService(store, blob)
		rec, err := svc.Upload(context.Background(), owner, fh)
		require.NoError(t, err)
		require.Equal(t, files.CategoryDocument, rec.Category)
		require.Equal(t, fh.Size, rec.Size)
		store.AssertExpectations(t)
		blob.AssertExpectations(t)
	})

	t.Run("rejects files over the size limit", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		fh := createFileHeader(t, "big.bin", bytes.Repeat([]byte("a"), 2048))

		svc := files.NewService(store, blob, files.WithMaxUploadSize(1024))
		_, err := svc.Upload(context.Background(), owner, fh)
		require.ErrorIs(t, err, storage.ErrFileTooLarge)
		blob.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects uploads past the quota", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		fh := createFileHeader(t, "x.txt", bytes.Repeat([]byte("a"), 600))

		store.On("Summarize", mock.Anything, "acct-1").Return([]files.CategoryUsage{
			{Category: files.CategoryDocument, Size: 500, Count: 3},
		}, nil)

		svc := files.NewService(store, blob, files.WithQuota(1000))
		_, err := svc.Upload(context.Background(), owner, fh)
		require.ErrorIs(t, err, files.ErrQuotaExceeded)
		blob.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("removes stored content when metadata insert fails", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		fh := createFileHeader(t, "x.txt", []byte("data"))

		store.On("Summarize", mock.Anything, "acct-1").Return([]files.CategoryUsage{}, nil)
		blob.On("Save", mock.Anything, fh, mock.Anything).
			Return(&storage.Object{Key: "files/acct-1/abc.txt", Size: fh.Size}, nil)
		blob.On("URL", "files/acct-1/abc.txt").Return("https://cdn.example.com/files/acct-1/abc.txt")
		store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("write conflict"))
		blob.On("Delete", mock.Anything, "files/acct-1/abc.txt").Return(nil)

		svc := files.NewService(store, blob)
		_, err := svc.Upload(context.Background(), owner, fh)
		require.ErrorIs(t, err, files.ErrUploadFailed)
		blob.AssertCalled(t, "Delete", mock.Anything, "files/acct-1/abc.txt")
	})
}

func TestService_Rename(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	existing := func() *files.Record {
		return &files.Record{
			ID:        id,
			OwnerID:   "acct-1",
			Name:      "old.pdf",
			Extension: "pdf",
		}
	}

	t.Run("preserves the extension", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("UpdateName", mock.Anything, id, "annual-report.pdf").Return(nil)

		svc := files.NewService(store, new(MockBlob))
		rec, err := svc.Rename(context.Background(), owner, id, "annual-report")
		require.NoError(t, err)
		require.Equal(t, "annual-report.pdf", rec.Name)
	})

	t.Run("shared user cannot rename", func(t *testing.T) {
		t.Parallel()

		rec := existing()
		rec.SharedWith = []string{"friend@example.com"}
		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(rec, nil)

		svc := files.NewService(store, new(MockBlob))
		_, err := svc.Rename(context.Background(), files.Actor{AccountID: "acct-2", Email: "friend@example.com"}, id, "stolen")
		require.ErrorIs(t, err, files.ErrNotOwner)
		store.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invisible file reads as missing", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)

		svc := files.NewService(store, new(MockBlob))
		_, err := svc.Rename(context.Background(), files.Actor{AccountID: "acct-2", Email: "stranger@example.com"}, id, "x")
		require.ErrorIs(t, err, files.ErrNotFound)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)

		svc := files.NewService(store, new(MockBlob))
		_, err := svc.Rename(context.Background(), owner, id, "   ")
		require.ErrorIs(t, err, files.ErrInvalidName)
	})
}

func TestService_Share(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	existing := func() *files.Record {
		return &files.Record{
			ID:         id,
			OwnerID:    "acct-1",
			Name:       "holiday.jpg",
			URL:        "https://cdn.example.com/files/acct-1/holiday.jpg",
			SharedWith: []string{"friend@example.com"},
		}
	}

	t.Run("adds new recipients and notifies them", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		notifier := new(MockNotifier)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("UpdateSharedWith", mock.Anything, id,
			[]string{"friend@example.com", "new@example.com"}).Return(nil)
		notifier.On("NotifyShared", mock.Anything, []string{"new@example.com"},
			"Ana Owner", "holiday.jpg", "https://cdn.example.com/files/acct-1/holiday.jpg").Return(nil)

		svc := files.NewService(store, new(MockBlob), files.WithNotifier(notifier))
		rec, err := svc.Share(context.Background(), owner, id,
			[]string{"  New@Example.com ", "friend@example.com", "owner@example.com"})
		require.NoError(t, err)
		require.Equal(t, []string{"friend@example.com", "new@example.com"}, rec.SharedWith)
		store.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("notification failure does not fail the share", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		notifier := new(MockNotifier)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("UpdateSharedWith", mock.Anything, id, mock.Anything).Return(nil)
		notifier.On("NotifyShared", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("smtp down"))

		svc := files.NewService(store, new(MockBlob), files.WithNotifier(notifier))
		_, err := svc.Share(context.Background(), owner, id, []string{"new@example.com"})
		require.NoError(t, err)
	})

	t.Run("no new recipients is a no-op", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)

		svc := files.NewService(store, new(MockBlob))
		rec, err := svc.Share(context.Background(), owner, id, []string{"friend@example.com"})
		require.NoError(t, err)
		require.Equal(t, []string{"friend@example.com"}, rec.SharedWith)
		store.AssertNotCalled(t, "UpdateSharedWith", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)

		svc := files.NewService(store, new(MockBlob))
		_, err := svc.Share(context.Background(), owner, id, []string{"not-an-email"})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})
}

func TestService_Unshare(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	store := new(MockStore)
	store.On("FindByID", mock.Anything, id).Return(&files.Record{
		ID:         id,
		OwnerID:    "acct-1",
		SharedWith: []string{"a@example.com", "b@example.com"},
	}, nil)
	store.On("UpdateSharedWith", mock.Anything, id, []string{"b@example.com"}).Return(nil)

	svc := files.NewService(store, new(MockBlob))
	rec, err := svc.Unshare(context.Background(), owner, id, "A@Example.com")
	require.NoError(t, err)
	require.Equal(t, []string{"b@example.com"}, rec.SharedWith)
	store.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	id := bson.NewObjectID()
	existing := func() *files.Record {
		return &files.Record{ID: id, OwnerID: "acct-1", Key: "files/acct-1/abc.pdf"}
	}

	t.Run("removes metadata then content", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("Delete", mock.Anything, id).Return(nil)
		blob.On("Delete", mock.Anything, "files/acct-1/abc.pdf").Return(nil)

		svc := files.NewService(store, blob)
		require.NoError(t, svc.Delete(context.Background(), owner, id))
		store.AssertExpectations(t)
		blob.AssertExpectations(t)
	})

	t.Run("content removal failure is swallowed", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("Delete", mock.Anything, id).Return(nil)
		blob.On("Delete", mock.Anything, mock.Anything).Return(errors.New("s3 unavailable"))

		svc := files.NewService(store, blob)
		require.NoError(t, svc.Delete(context.Background(), owner, id))
	})

	t.Run("metadata failure aborts", func(t *testing.T) {
		t.Parallel()

		store := new(MockStore)
		blob := new(MockBlob)
		store.On("FindByID", mock.Anything, id).Return(existing(), nil)
		store.On("Delete", mock.Anything, id).Return(errors.New("db down"))

		svc := files.NewService(store, blob)
		require.Error(t, svc.Delete(context.Background(), owner, id))
		blob.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestService_Usage(t *testing.T) {
	t.Parallel()

	store := new(MockStore)
	store.On("Summarize", mock.Anything, "acct-1").Return([]files.CategoryUsage{
		{Category: files.CategoryDocument, Size: 1000, Count: 4},
		{Category: files.CategoryImage, Size: 2500, Count: 9},
	}, nil)

	svc := files.NewService(store, new(MockBlob), files.WithQuota(10_000))
	usage, err := svc.Usage(context.Background(), owner)
	require.NoError(t, err)
	require.EqualValues(t, 3500, usage.Used)
	require.EqualValues(t, 10_000, usage.Quota)
	require.Len(t, usage.Categories, 2)
}
