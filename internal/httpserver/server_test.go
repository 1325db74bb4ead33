package httpserver_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zulqarnainhdr514/storage-management/internal/httpserver"
	"github.com/zulqarnainhdr514/storage-management/internal/logger"
)

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{
		Addr:            addr,
		ShutdownTimeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "ok")
		}))
	}()

	var resp *http.Response
	var err error
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunTwice(t *testing.T) {
	t.Parallel()

	addr := freeAddr(t)
	srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Run(ctx, nil) }()
	require.Eventually(t, func() bool {
		err := srv.Run(ctx, nil)
		return errors.Is(err, httpserver.ErrStart)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	log := logger.New(logger.WithOutput(io.Discard))

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "ALIVE", w.Body.String())
	})

	t.Run("readiness passing", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, func(context.Context) error { return nil }).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "READY", w.Body.String())
	})

	t.Run("readiness failing", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, func(context.Context) error { return errors.New("db down") }).
			ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, "NOT_READY", w.Body.String())
	})
}
