package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/httpserver"
	"github.com/zulqarnainhdr514/storage-management/internal/ratelimit"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Auth          AuthService
	Files         FileService
	Sessions      SessionCarrier
	OTPLimiter    *ratelimit.Bucket // nil disables OTP throttling
	MaxUploadSize int64             // <=0 falls back to files.DefaultMaxUploadSize
	Logger        *slog.Logger
	HealthChecks  []func(context.Context) error
}

// requireUser rejects requests that did not resolve to an authenticated
// profile.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUserFromContext(r.Context()) == nil {
			respondErrorDetail(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter assembles the full HTTP API.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	authHandler := NewAuthHandler(deps.Auth, deps.Sessions, log)
	filesHandler := NewFilesHandler(deps.Files, log, deps.MaxUploadSize)

	throttle := func(next http.Handler) http.Handler { return next }
	if deps.OTPLimiter != nil {
		throttle = ratelimit.Middleware(deps.OTPLimiter,
			ratelimit.Composite(ratelimit.ByIP, ratelimit.ByJSONEmail))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log, deps.HealthChecks...))

	r.Route("/api/auth", func(r chi.Router) {
		r.With(throttle).Post("/sign-up", authHandler.SignUp)
		r.With(throttle).Post("/sign-in", authHandler.SignIn)
		r.Post("/verify", authHandler.Verify)
		r.Post("/sign-out", authHandler.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Auth, deps.Sessions))
			r.Get("/me", authHandler.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(deps.Auth, deps.Sessions))
		r.Use(requireUser)

		r.Route("/api/files", func(r chi.Router) {
			r.Post("/", filesHandler.Upload)
			r.Get("/", filesHandler.List)
			r.Get("/{id}", filesHandler.Get)
			r.Patch("/{id}/rename", filesHandler.Rename)
			r.Patch("/{id}/share", filesHandler.Share)
			r.Patch("/{id}/unshare", filesHandler.Unshare)
			r.Delete("/{id}", filesHandler.Delete)
		})

		r.Get("/api/dashboard", filesHandler.Dashboard)
	})

	return r
}
