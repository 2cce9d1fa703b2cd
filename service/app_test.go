package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"myblog/config"
)

func TestServerGracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			// Simulate work.
			time.Sleep(100 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln, zap.NewNop()) }()

	status := make(chan int, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-started
	cancel()

	// The in-flight request completes before Serve returns.
	assert.Equal(t, http.StatusOK, <-status)
	require.NoError(t, <-done)
}

func TestServeReportsListenerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()

	err = Serve(context.Background(), &http.Server{}, ln, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, err := openBackend(ctx, config.AppConfig{StoreDriver: "badger", BadgerPath: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	assert.NotNil(t, b.posts)
	assert.NotNil(t, b.comments)
	assert.NotNil(t, b.users)
	require.NoError(t, b.close())

	_, err = openBackend(ctx, config.AppConfig{StoreDriver: "postgres"})
	assert.ErrorContains(t, err, `unknown store driver "postgres"`)
}

func TestRunAppServer(t *testing.T) {
	cfg := config.AppConfig{
		AppPort:       "127.0.0.1:0",
		SessionKey:    "myblog",
		SessionSecret: "test-secret",
		SessionMaxAge: 3600,
		PerPage:       10,
		StoreDriver:   "badger",
		BadgerPath:    filepath.Join(t.TempDir(), "badger"),
		LogLevel:      "error",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunAppServer(ctx, cfg) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
