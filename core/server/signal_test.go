//go:build unix

package server_test

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rapina/core/server"
)

// These tests deliver real signals to the test process and must not run in
// parallel with each other.

func TestServerStopsOnSignal(t *testing.T) {
	for _, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGTERM} {
		t.Run(sig.String(), func(t *testing.T) {
			var logs syncBuffer
			var hooks atomic.Int32

			srv := server.New("127.0.0.1:0",
				server.WithLogger(testLogger(&logs)),
				server.WithShutdownHooks(server.HookFunc(func(context.Context) error {
					hooks.Add(1)
					return nil
				})),
			)

			done := make(chan error, 1)
			go func() { done <- srv.Listen(context.Background(), okHandler()) }()
			<-srv.Ready()

			require.NoError(t, syscall.Kill(os.Getpid(), sig))

			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("server did not stop on signal")
			}

			assert.Equal(t, int32(1), hooks.Load())
			assert.Equal(t, server.PhaseStopped, srv.Phase())
			assert.Contains(t, logs.String(), "shutdown signal received")
			assert.Contains(t, logs.String(), "signal="+sig.String())
		})
	}
}

func TestServerIgnoresSecondSignalWhileDraining(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = io.WriteString(w, "finished")
	})

	var logs syncBuffer
	var hooks atomic.Int32
	srv := server.New("127.0.0.1:0",
		server.WithLogger(testLogger(&logs)),
		server.WithShutdownTimeout(5*time.Second),
		server.WithShutdownHooks(server.HookFunc(func(context.Context) error {
			hooks.Add(1)
			return nil
		})),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Listen(context.Background(), h) }()
	<-srv.Ready()

	body := make(chan string, 1)
	go func() {
		_, b, _ := get(&http.Client{Timeout: 10 * time.Second}, "http://"+srv.Addr().String())
		body <- b
	}()
	<-started

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	require.Eventually(t, func() bool {
		return srv.Phase() == server.PhaseDraining
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "signal ignored, shutdown in progress")
	}, 2*time.Second, 5*time.Millisecond)

	// Still draining: the second signal neither forced an exit nor skipped the drain
	assert.Equal(t, server.PhaseDraining, srv.Phase())

	close(release)
	assert.Equal(t, "finished", <-body)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, int32(1), hooks.Load())
}
