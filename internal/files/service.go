package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zulqarnainhdr514/storage-management/internal/logger"
	"github.com/zulqarnainhdr514/storage-management/internal/sanitizer"
	"github.com/zulqarnainhdr514/storage-management/internal/storage"
	"github.com/zulqarnainhdr514/storage-management/internal/validator"
)

const (
	// DefaultMaxUploadSize caps a single upload at 50 MB.
	DefaultMaxUploadSize int64 = 50 << 20
	// DefaultQuota caps total storage per account at 2 GB.
	DefaultQuota int64 = 2 << 30
)

// Store persists file metadata records.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id bson.ObjectID) (*Record, error)
	ListVisible(ctx context.Context, accountID, email string, params ListParams) ([]Record, error)
	UpdateName(ctx context.Context, id bson.ObjectID, name string) error
	UpdateSharedWith(ctx context.Context, id bson.ObjectID, emails []string) error
	Delete(ctx context.Context, id bson.ObjectID) error
	Summarize(ctx context.Context, accountID string) ([]CategoryUsage, error)
}

// Blob stores and serves file content.
type Blob interface {
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Notifier announces newly shared files to their recipients. Delivery is
// best effort and never blocks the share itself.
type Notifier interface {
	NotifyShared(ctx context.Context, recipients []string, sharerName, fileName, fileURL string) error
}

// Actor identifies the signed-in user performing an operation.
type Actor struct {
	AccountID string
	Email     string
	Name      string
}

// Service implements file operations over a metadata store and a blob
// backend.
type Service struct {
	store    Store
	blob     Blob
	notifier Notifier
	log      *slog.Logger

	maxUploadSize int64
	quota         int64
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMaxUploadSize(limit int64) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxUploadSize = limit
		}
	}
}

func WithQuota(quota int64) Option {
	return func(s *Service) {
		if quota > 0 {
			s.quota = quota
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// NewService creates a file service.
func NewService(store Store, blob Blob, opts ...Option) *Service {
	s := &Service{
		store:         store,
		blob:          blob,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxUploadSize: DefaultMaxUploadSize,
		quota:         DefaultQuota,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores the file content in the blob backend and records its
// metadata. Content that was written but whose metadata could not be
// recorded is removed again so no orphan objects accumulate.
func (s *Service) Upload(ctx context.Context, actor Actor, fh *multipart.FileHeader) (*Record, error) {
	if err := storage.ValidateSize(fh, s.maxUploadSize); err != nil {
		return nil, err
	}

	usage, err := s.Usage(ctx, actor)
	if err != nil {
		return nil, err
	}
	if usage.Used+fh.Size > s.quota {
		return nil, ErrQuotaExceeded
	}

	name := storage.SanitizeFilename(fh.Filename)
	ext := Extension(name)
	key := fmt.Sprintf("files/%s/%s", actor.AccountID, uuid.NewString())
	if ext != "" {
		key += "." + ext
	}

	obj, err := s.blob.Save(ctx, fh, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	rec := &Record{
		OwnerID:    actor.AccountID,
		Name:       name,
		Key:        obj.Key,
		URL:        s.blob.URL(obj.Key),
		Category:   Categorize(name),
		Extension:  ext,
		Size:       obj.Size,
		SharedWith: []string{},
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		if delErr := s.blob.Delete(ctx, obj.Key); delErr != nil {
			s.log.ErrorContext(ctx, "failed to remove orphan object after metadata insert failure",
				logger.Error(delErr), slog.String("key", obj.Key))
		}
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.log.InfoContext(ctx, "file uploaded",
		logger.AccountID(actor.AccountID),
		logger.FileID(rec.ID.Hex()),
		slog.String("category", string(rec.Category)),
		slog.Int64("size", rec.Size))

	return rec, nil
}

// List returns the files visible to the actor, owned or shared with them.
func (s *Service) List(ctx context.Context, actor Actor, params ListParams) ([]Record, error) {
	return s.store.ListVisible(ctx, actor.AccountID, actor.Email, params)
}

// Get returns a single file if the actor may see it.
func (s *Service) Get(ctx context.Context, actor Actor, id bson.ObjectID) (*Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.VisibleTo(actor.AccountID, actor.Email) {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Rename changes a file's display name. The stored extension is preserved
// so the name keeps matching the content.
func (s *Service) Rename(ctx context.Context, actor Actor, id bson.ObjectID, name string) (*Record, error) {
	rec, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name = storage.SanitizeFilename(strings.TrimSpace(name))
	if name == "" || name == "unnamed" {
		return nil, ErrInvalidName
	}
	if rec.Extension != "" && !strings.HasSuffix(strings.ToLower(name), "."+rec.Extension) {
		name += "." + rec.Extension
	}

	if err := s.store.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}
	rec.Name = name
	return rec, nil
}

// Share grants the given email addresses read access to a file and
// notifies the new recipients. Addresses are normalized and deduplicated;
// the owner's own address is ignored.
func (s *Service) Share(ctx context.Context, actor Actor, id bson.ObjectID, emails []string) (*Record, error) {
	rec, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(rec.SharedWith))
	for _, e := range rec.SharedWith {
		existing[e] = true
	}

	var added []string
	merged := append([]string{}, rec.SharedWith...)
	for _, raw := range emails {
		email := sanitizer.NormalizeEmail(raw)
		if err := validator.Apply(validator.ValidEmail("emails", email)); err != nil {
			return nil, err
		}
		if email == actor.Email || existing[email] {
			continue
		}
		existing[email] = true
		merged = append(merged, email)
		added = append(added, email)
	}

	if len(added) == 0 {
		return rec, nil
	}

	if err := s.store.UpdateSharedWith(ctx, id, merged); err != nil {
		return nil, err
	}
	rec.SharedWith = merged

	if s.notifier != nil {
		if err := s.notifier.NotifyShared(ctx, added, actor.Name, rec.Name, rec.URL); err != nil {
			s.log.WarnContext(ctx, "failed to send share notification",
				logger.Error(err), logger.FileID(rec.ID.Hex()))
		}
	}

	return rec, nil
}

// Unshare revokes one email address's access to a file.
func (s *Service) Unshare(ctx context.Context, actor Actor, id bson.ObjectID, email string) (*Record, error) {
	rec, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	email = sanitizer.NormalizeEmail(email)
	remaining := make([]string, 0, len(rec.SharedWith))
	for _, e := range rec.SharedWith {
		if e != email {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(rec.SharedWith) {
		return rec, nil
	}

	if err := s.store.UpdateSharedWith(ctx, id, remaining); err != nil {
		return nil, err
	}
	rec.SharedWith = remaining
	return rec, nil
}

// Delete removes a file's metadata and its stored content. Content removal
// failures are logged but do not undo the metadata deletion.
func (s *Service) Delete(ctx context.Context, actor Actor, id bson.ObjectID) error {
	rec, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blob.Delete(ctx, rec.Key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.ErrorContext(ctx, "failed to delete object content",
			logger.Error(err), slog.String("key", rec.Key))
	}

	s.log.InfoContext(ctx, "file deleted",
		logger.AccountID(actor.AccountID), logger.FileID(id.Hex()))
	return nil
}

// Usage reports per-category and total storage consumption for the actor's
// own files.
func (s *Service) Usage(ctx context.Context, actor Actor) (*Usage, error) {
	categories, err := s.store.Summarize(ctx, actor.AccountID)
	if err != nil {
		return nil, err
	}

	var used int64
	for _, c := range categories {
		used += c.Size
	}

	return &Usage{
		Used:       used,
		Quota:      s.quota,
		Categories: categories,
	}, nil
}

func (s *Service) authorizeOwner(ctx context.Context, actor Actor, id bson.ObjectID) (*Record, error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.VisibleTo(actor.AccountID, actor.Email) {
		return nil, ErrNotFound
	}
	if !rec.OwnedBy(actor.AccountID) {
		return nil, ErrNotOwner
	}
	return rec, nil
}
