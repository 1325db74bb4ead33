// Package handler exposes the HTTP API: authentication endpoints that
// manage the session cookie, and file endpoints for the signed-in user.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/logger"
	"github.com/zulqarnainhdr514/storage-management/internal/storage"
	"github.com/zulqarnainhdr514/storage-management/internal/validator"
)

// JSONResponse is the standard response envelope.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail carries a machine-readable code plus a user-appropriate
// message.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, JSONResponse{Data: data})
}

func respondErrorDetail(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, JSONResponse{Error: &ErrorDetail{Code: code, Message: message}})
}

// respondError maps domain errors to HTTP statuses. Unrecognized errors
// are logged and answered with a generic 500 so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string][]string, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = append(details[ve.Field], ve.Message)
		}
		respondJSON(w, http.StatusUnprocessableEntity, JSONResponse{
			Error: &ErrorDetail{
				Code:    "validation_error",
				Message: "validation failed",
				Details: details,
			},
		})
		return
	}

	switch {
	case errors.Is(err, auth.ErrAccountExists):
		respondErrorDetail(w, http.StatusConflict, "account_exists", err.Error())
	case errors.Is(err, auth.ErrInvalidOrExpiredOTP):
		respondErrorDetail(w, http.StatusUnauthorized, "invalid_otp", err.Error())
	case errors.Is(err, auth.ErrChallengeDelivery):
		respondErrorDetail(w, http.StatusBadGateway, "challenge_delivery_failed", err.Error())
	case errors.Is(err, auth.ErrProfilePersistence):
		respondErrorDetail(w, http.StatusInternalServerError, "profile_persistence_failed", err.Error())
	case errors.Is(err, files.ErrNotFound):
		respondErrorDetail(w, http.StatusNotFound, "file_not_found", err.Error())
	case errors.Is(err, files.ErrNotOwner):
		respondErrorDetail(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, files.ErrQuotaExceeded):
		respondErrorDetail(w, http.StatusForbidden, "quota_exceeded", err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		respondErrorDetail(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, files.ErrInvalidName), errors.Is(err, files.ErrInvalidCategory):
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.ErrorContext(r.Context(), "request failed",
			logger.Error(err),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method))
		respondErrorDetail(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
