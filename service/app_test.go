package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"blogfront/app/config"
	"blogfront/app/upstream/mock"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.FromViper(config.New())
	cfg.Server.ShutdownTimeout = time.Second
	logger, _ := test.NewNullLogger()

	app, err := NewApp(cfg, mock.NewPostsAPI(12), logger)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestServerGracefulShutdown(t *testing.T) {
	app := setupTestApp(t)

	// Find an available port.
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	base := fmt.Sprintf("http://%s", listener.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Serve(ctx, listener)
	}()

	// Make a request to verify the server is running.
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp, err := http.Get(base + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "My Blog")

	// Initiate graceful shutdown.
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
