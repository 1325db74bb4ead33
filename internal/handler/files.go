package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
)

// FileService defines the file operations the HTTP layer needs.
type FileService interface {
	Upload(ctx context.Context, actor files.Actor, fh *multipart.FileHeader) (*files.Record, error)
	List(ctx context.Context, actor files.Actor, params files.ListParams) ([]files.Record, error)
	Get(ctx context.Context, actor files.Actor, id bson.ObjectID) (*files.Record, error)
	Rename(ctx context.Context, actor files.Actor, id bson.ObjectID, name string) (*files.Record, error)
	Share(ctx context.Context, actor files.Actor, id bson.ObjectID, emails []string) (*files.Record, error)
	Unshare(ctx context.Context, actor files.Actor, id bson.ObjectID, email string) (*files.Record, error)
	Delete(ctx context.Context, actor files.Actor, id bson.ObjectID) error
	Usage(ctx context.Context, actor files.Actor) (*files.Usage, error)
}

// FilesHandler serves the file endpoints for the signed-in user.
type FilesHandler struct {
	svc FileService
	log *slog.Logger

	maxUploadBytes int64
}

func NewFilesHandler(svc FileService, log *slog.Logger, maxUploadBytes int64) *FilesHandler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = files.DefaultMaxUploadSize
	}
	return &FilesHandler{
		svc:            svc,
		log:            log,
		maxUploadBytes: maxUploadBytes,
	}
}

func actorFrom(user *profile.Record) files.Actor {
	return files.Actor{
		AccountID: user.AccountID,
		Email:     user.Email,
		Name:      user.FullName,
	}
}

// Upload accepts a multipart form with a single "file" field.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondErrorDetail(w, http.StatusRequestEntityTooLarge, "file_too_large", "upload exceeds the size limit")
			return
		}
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "expected multipart form upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	fhs := r.MultipartForm.File["file"]
	if len(fhs) == 0 {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return
	}

	rec, err := h.svc.Upload(r.Context(), actorFrom(user), fhs[0])
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondData(w, http.StatusCreated, rec)
}

// List returns the files visible to the user, filtered by the query
// string: category, search, sort, limit.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())

	params := files.ListParams{
		Category: files.Category(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sort"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		params.Limit = limit
	}

	records, err := h.svc.List(r.Context(), actorFrom(user), params)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, JSONResponse{
		Data: records,
		Meta: map[string]any{"total": len(records)},
	})
}

type renameRequest struct {
	Name string `json:"name"`
}

// Get returns a single file visible to the current user.
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), actorFrom(user), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}

func (h *FilesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	rec, err := h.svc.Rename(r.Context(), actorFrom(user), id, req.Name)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}

type shareRequest struct {
	Emails []string `json:"emails"`
}

func (h *FilesHandler) Share(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if len(req.Emails) == 0 {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "emails is required")
		return
	}

	rec, err := h.svc.Share(r.Context(), actorFrom(user), id, req.Emails)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}

type unshareRequest struct {
	Email string `json:"email"`
}

func (h *FilesHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	var req unshareRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	rec, err := h.svc.Unshare(r.Context(), actorFrom(user), id, req.Email)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respondData(w, http.StatusOK, rec)
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	id, ok := h.fileID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), actorFrom(user), id); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns the storage usage summary plus the most recent files.
func (h *FilesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	actor := actorFrom(user)

	usage, err := h.svc.Usage(r.Context(), actor)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	recent, err := h.svc.List(r.Context(), actor, files.ListParams{
		Sort:  files.SortNewest,
		Limit: 10,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondData(w, http.StatusOK, map[string]any{
		"usage":  usage,
		"recent": recent,
	})
}

func (h *FilesHandler) fileID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "invalid file id")
		return bson.ObjectID{}, false
	}
	return id, true
}
