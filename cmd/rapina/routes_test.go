package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/response"
	"github.com/dmitrymomot/rapina/core/router"
)

func introspectedServer(t *testing.T) *httptest.Server {
	t.Helper()

	r := router.New[*router.Context](router.WithIntrospection[*router.Context](true))
	registerUserRoutes(r)
	r.Get("/health", func(*router.Context) handler.Response { return response.NoContent() })

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRoutes(t *testing.T) {
	t.Parallel()

	srv := introspectedServer(t)

	routes, err := fetchRoutes(context.Background(), srv.Client(), srv.URL+router.IntrospectionPath)
	require.NoError(t, err)

	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: "GET", Path: "/users", HandlerName: "list_users"}, routes[0])
	assert.Equal(t, router.RouteInfo{Method: "GET", Path: "/users/:id", HandlerName: "get_user"}, routes[1])
	assert.Equal(t, router.RouteInfo{Method: "GET", Path: "/users/me", HandlerName: "current_user"}, routes[2])
}

func TestFetchRoutesErrors(t *testing.T) {
	t.Parallel()

	t.Run("introspection disabled", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(router.New[*router.Context]())
		t.Cleanup(srv.Close)

		_, err := fetchRoutes(context.Background(), srv.Client(), srv.URL+router.IntrospectionPath)
		assert.ErrorIs(t, err, errUnexpectedReply)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>hi</html>"))
		}))
		t.Cleanup(srv.Close)

		_, err := fetchRoutes(context.Background(), srv.Client(), srv.URL+router.IntrospectionPath)
		assert.ErrorIs(t, err, errUnexpectedReply)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		_, err = fetchRoutes(context.Background(), http.DefaultClient, "http://"+addr+router.IntrospectionPath)
		assert.ErrorIs(t, err, errUnreachable)
	})
}

func TestPrintRoutes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, []router.RouteInfo{
		{Method: "GET", Path: "/users", HandlerName: "list_users"},
		{Method: "POST", Path: "/users/:id/avatar", HandlerName: "upload_avatar"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"METHOD", "PATH", "HANDLER"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"GET", "/users", "list_users"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"POST", "/users/:id/avatar", "upload_avatar"}, strings.Fields(lines[2]))

	buf.Reset()
	require.NoError(t, printRoutes(&buf, nil))
	assert.Equal(t, "no named routes\n", buf.String())
}

func TestRoutesCommand(t *testing.T) {
	t.Parallel()

	srv := introspectedServer(t)
	host, port, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes", "--host", host, "--port", port})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "get_user")
	assert.Contains(t, out.String(), "/users/me")
}
