package router

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestTable(t *testing.T, routes ...[2]string) *Table[string] {
	t.Helper()

	tbl := NewTable[string]()
	for _, r := range routes {
		require.NoError(t, tbl.Register(r[0], r[1], r[0]+" "+r[1], ""))
	}
	tbl.Prepare()
	return tbl
}

func TestTableMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		routes     [][2]string
		method     string
		path       string
		want       string
		wantParams Params
	}{
		{
			name:   "static registered after param still wins",
			routes: [][2]string{{"GET", "/users/:id"}, {"GET", "/users/current"}},
			method: "GET", path: "/users/current",
			want: "GET /users/current",
		},
		{
			name:   "param still matches other values",
			routes: [][2]string{{"GET", "/users/:id"}, {"GET", "/users/current"}},
			method: "GET", path: "/users/42",
			want: "GET /users/:id", wantParams: Params{"id": "42"},
		},
		{
			name:   "earlier static segment wins",
			routes: [][2]string{{"GET", "/api/:version/users"}, {"GET", "/api/v1/:resource"}},
			method: "GET", path: "/api/v1/users",
			want: "GET /api/v1/:resource", wantParams: Params{"resource": "users"},
		},
		{
			name:   "only matching pattern is selected",
			routes: [][2]string{{"GET", "/api/:version/users"}, {"GET", "/api/v1/:resource"}},
			method: "GET", path: "/api/v2/users",
			want: "GET /api/:version/users", wantParams: Params{"version": "v2"},
		},
		{
			name:   "multi level specificity",
			routes: [][2]string{{"GET", "/users/:id/:action"}, {"GET", "/users/:id/posts"}},
			method: "GET", path: "/users/5/posts",
			want: "GET /users/:id/posts", wantParams: Params{"id": "5"},
		},
		{
			name:   "multi level falls back to params",
			routes: [][2]string{{"GET", "/users/:id/:action"}, {"GET", "/users/:id/posts"}},
			method: "GET", path: "/users/5/settings",
			want: "GET /users/:id/:action", wantParams: Params{"id": "5", "action": "settings"},
		},
		{
			name:   "root level param does not shadow static",
			routes: [][2]string{{"GET", "/:slug"}, {"GET", "/about"}},
			method: "GET", path: "/about",
			want: "GET /about",
		},
		{
			name:   "other methods unaffected by sorting",
			routes: [][2]string{{"GET", "/users/:id"}, {"POST", "/users/current"}},
			method: "GET", path: "/users/current",
			want: "GET /users/:id", wantParams: Params{"id": "current"},
		},
		{
			name:   "post matches its own static",
			routes: [][2]string{{"GET", "/users/:id"}, {"POST", "/users/current"}},
			method: "POST", path: "/users/current",
			want: "POST /users/current",
		},
		{
			name:   "root",
			routes: [][2]string{{"GET", "/"}, {"GET", "/:slug"}},
			method: "GET", path: "/",
			want: "GET /",
		},
		{
			name:   "empty path is root",
			routes: [][2]string{{"GET", "/"}},
			method: "GET", path: "",
			want: "GET /",
		},
		{
			name:   "ambiguous tie resolved by registration order",
			routes: [][2]string{{"GET", "/users/:id/:a"}, {"GET", "/users/:id/:b"}},
			method: "GET", path: "/users/1/x",
			want: "GET /users/:id/:a", wantParams: Params{"id": "1", "a": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := newTestTable(t, tt.routes...)
			e, params, err := tbl.Match(tt.method, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Handler)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestTableNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		routes [][2]string
		method string
		path   string
	}{
		{"unknown path", [][2]string{{"GET", "/exists"}}, "GET", "/does-not-exist"},
		{"method mismatch", [][2]string{{"GET", "/resource"}}, "POST", "/resource"},
		{"trailing slash is distinct", [][2]string{{"GET", "/users"}}, "GET", "/users/"},
		{"missing trailing slash is distinct", [][2]string{{"GET", "/users/"}}, "GET", "/users"},
		{"segment count differs", [][2]string{{"GET", "/users/:id"}}, "GET", "/users/1/posts"},
		{"case sensitive", [][2]string{{"GET", "/about"}}, "GET", "/About"},
		{"no routes for method", nil, "DELETE", "/"},
		{"asterisk form", [][2]string{{"OPTIONS", "/"}}, "OPTIONS", "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tbl := newTestTable(t, tt.routes...)
			e, params, err := tbl.Match(tt.method, tt.path)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Nil(t, e)
			assert.Nil(t, params)
		})
	}
}

func TestTableTrailingSlashRoutesCoexist(t *testing.T) {
	t.Parallel()

	tbl := newTestTable(t, [2]string{"GET", "/users"}, [2]string{"GET", "/users/"})

	e, _, err := tbl.Match("GET", "/users")
	require.NoError(t, err)
	assert.Equal(t, "GET /users", e.Handler)

	e, _, err = tbl.Match("GET", "/users/")
	require.NoError(t, err)
	assert.Equal(t, "GET /users/", e.Handler)
}

func TestTableRegisterErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable[string]()
		err := tbl.Register("GET", "/a/:x/:x", "h", "")
		assert.ErrorIs(t, err, ErrInvalidPattern)
		assert.ErrorIs(t, err, ErrDuplicateParam)
	})

	t.Run("empty method", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable[string]()
		assert.ErrorIs(t, tbl.Register("", "/a", "h", ""), ErrInvalidMethod)
	})

	t.Run("after prepare", func(t *testing.T) {
		t.Parallel()

		tbl := NewTable[string]()
		require.NoError(t, tbl.Register("GET", "/a", "h", ""))
		tbl.Prepare()

		err := tbl.Register("GET", "/b", "h", "")
		assert.ErrorIs(t, err, ErrInvalidPattern)
		assert.ErrorIs(t, err, ErrRouterPrepared)
	})
}

func TestTablePrepareIdempotent(t *testing.T) {
	t.Parallel()

	tbl := NewTable[string]()
	require.NoError(t, tbl.Register("GET", "/users/:id", "param", ""))
	require.NoError(t, tbl.Register("GET", "/users/me", "static", ""))
	assert.False(t, tbl.Prepared())

	tbl.Prepare()
	first := tbl.Candidates("GET")
	tbl.Prepare()
	second := tbl.Candidates("GET")

	assert.True(t, tbl.Prepared())
	assert.Equal(t, first, second)
	assert.Equal(t, "static", first[0].Handler)
}

func TestTableMatchPreparesLazily(t *testing.T) {
	t.Parallel()

	tbl := NewTable[string]()
	require.NoError(t, tbl.Register("GET", "/users/:id", "param", ""))
	require.NoError(t, tbl.Register("GET", "/users/me", "static", ""))

	e, _, err := tbl.Match("GET", "/users/me")
	require.NoError(t, err)
	assert.Equal(t, "static", e.Handler)
	assert.True(t, tbl.Prepared())
}

func TestTableOrderIndependentOfRegistration(t *testing.T) {
	t.Parallel()

	patterns := []string{"/a/:x/c", "/a/b/:y", "/:p/b/c", "/a/b/c"}

	// every rotation of the registration order resolves the same way
	for shift := range patterns {
		tbl := NewTable[string]()
		for i := range patterns {
			p := patterns[(i+shift)%len(patterns)]
			require.NoError(t, tbl.Register(http.MethodGet, p, p, ""))
		}
		tbl.Prepare()

		e, _, err := tbl.Match(http.MethodGet, "/a/b/c")
		require.NoError(t, err)
		assert.Equal(t, "/a/b/c", e.Handler, "rotation %d", shift)

		e, _, err = tbl.Match(http.MethodGet, "/a/b/z")
		require.NoError(t, err)
		assert.Equal(t, "/a/b/:y", e.Handler, "rotation %d", shift)

		e, _, err = tbl.Match(http.MethodGet, "/a/z/c")
		require.NoError(t, err)
		assert.Equal(t, "/a/:x/c", e.Handler, "rotation %d", shift)

		e, _, err = tbl.Match(http.MethodGet, "/z/b/c")
		require.NoError(t, err)
		assert.Equal(t, "/:p/b/c", e.Handler, "rotation %d", shift)
	}
}

func TestTableMatchDeterministicUnderConcurrency(t *testing.T) {
	t.Parallel()

	tbl := NewTable[string]()
	for i := range 50 {
		require.NoError(t, tbl.Register("GET", fmt.Sprintf("/r%d/:id", i), fmt.Sprintf("param-%d", i), ""))
		require.NoError(t, tbl.Register("GET", fmt.Sprintf("/r%d/static", i), fmt.Sprintf("static-%d", i), ""))
	}
	tbl.Prepare()

	var g errgroup.Group
	for w := range 16 {
		g.Go(func() error {
			for i := range 50 {
				e, _, err := tbl.Match("GET", fmt.Sprintf("/r%d/static", (i+w)%50))
				if err != nil {
					return err
				}
				if want := fmt.Sprintf("static-%d", (i+w)%50); e.Handler != want {
					return fmt.Errorf("got %s, want %s", e.Handler, want)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestUnescapeParams(t *testing.T) {
	t.Parallel()

	params := Params{"name": "a%2Fb", "bad": "%zz"}
	unescapeParams(params)
	assert.Equal(t, "a/b", params["name"])
	assert.Equal(t, "%zz", params["bad"])
}
