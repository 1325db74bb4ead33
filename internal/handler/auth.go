package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
)

// AuthService defines the authentication operations the HTTP layer needs.
type AuthService interface {
	SignUp(ctx context.Context, fullName, email string) (*auth.SignUpResult, error)
	SignIn(ctx context.Context, email string) (*auth.SignInResult, error)
	Verify(ctx context.Context, params auth.VerifyParams) (*auth.VerifyResult, error)
	CurrentUser(ctx context.Context, secret string) (*profile.Record, error)
	SignOut(ctx context.Context, secret string)
}

// SessionCarrier moves the session secret between requests and responses.
type SessionCarrier interface {
	Read(r *http.Request) (string, error)
	Write(w http.ResponseWriter, secret string) error
	Clear(w http.ResponseWriter)
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	svc      AuthService
	sessions SessionCarrier
	log      *slog.Logger
}

func NewAuthHandler(svc AuthService, sessions SessionCarrier, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuthHandler{svc: svc, sessions: sessions, log: log}
}

type signUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// SignUp starts account creation and triggers passcode delivery.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	res, err := h.svc.SignUp(r.Context(), req.FullName, req.Email)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"accountId": res.AccountID})
}

type signInRequest struct {
	Email string `json:"email"`
}

// SignIn starts authentication for an existing account. An unknown email
// answers 404 with a structured body rather than an error page; the client
// steers the user to sign-up from it.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	res, err := h.svc.SignIn(r.Context(), req.Email)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if !res.Found {
		respondErrorDetail(w, http.StatusNotFound, "account_not_found", "no account exists for this email")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"accountId": res.AccountID})
}

type verifyRequest struct {
	AccountID string `json:"accountId"`
	Passcode  string `json:"passcode"`
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Verify exchanges the passcode for a session. The session cookie is
// written only after the whole verification sequence succeeded.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if req.AccountID == "" || req.Passcode == "" {
		respondErrorDetail(w, http.StatusBadRequest, "invalid_request", "accountId and passcode are required")
		return
	}

	res, err := h.svc.Verify(r.Context(), auth.VerifyParams{
		AccountID: req.AccountID,
		Passcode:  req.Passcode,
		FullName:  req.FullName,
		Email:     req.Email,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	if err := h.sessions.Write(w, res.Secret); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{
		"sessionId": res.SessionID,
		"accountId": res.AccountID,
	})
}

// SignOut tears down the directory session, clears the cookie and
// redirects. The cookie is cleared and the redirect issued even when the
// directory call failed; the local session must die regardless.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if secret, err := h.sessions.Read(r); err == nil {
		h.svc.SignOut(r.Context(), secret)
	}

	h.sessions.Clear(w)
	http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
}

// Me returns the signed-in user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromContext(r.Context())
	if user == nil {
		respondErrorDetail(w, http.StatusUnauthorized, "unauthorized", "sign in required")
		return
	}
	respondData(w, http.StatusOK, user)
}
