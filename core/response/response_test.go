package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/response"
	"github.com/dmitrymomot/rapina/core/router"
)

func render(t *testing.T, resp handler.Response) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, resp(w, r))
	return w
}

func TestString(t *testing.T) {
	t.Parallel()

	w := render(t, response.String("Hello, World!"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Hello, World!", w.Body.String())

	w = render(t, response.StringWithStatus("created", http.StatusCreated))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "created", w.Body.String())

	w = render(t, response.StringWithStatus("", 0))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBytes(t *testing.T) {
	t.Parallel()

	w := render(t, response.Bytes([]byte{0x1, 0x2}, "application/octet-stream"))
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x1, 0x2}, w.Body.Bytes())

	w = render(t, response.BytesWithStatus(nil, "", http.StatusAccepted))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusNoContent, render(t, response.NoContent()).Code)
	assert.Equal(t, http.StatusAccepted, render(t, response.Status(http.StatusAccepted)).Code)
	assert.Equal(t, http.StatusOK, render(t, response.Status(0)).Code)
}

func TestWithHeaders(t *testing.T) {
	t.Parallel()

	w := render(t, response.WithHeaders(response.String("ok"), map[string]string{"Cache-Control": "no-store"}))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "ok", w.Body.String())

	assert.Nil(t, response.WithHeaders(nil, map[string]string{"X": "y"}))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       handler.Response
		wantStatus int
		wantBody   string
	}{
		{"object", response.JSON(map[string]string{"name": "rapina"}), http.StatusOK, "{\"name\":\"rapina\"}\n"},
		{"custom status", response.JSONWithStatus([]int{1}, http.StatusCreated), http.StatusCreated, "[1]\n"},
		{"nil with zero status", response.JSONWithStatus(nil, 0), http.StatusNoContent, ""},
		{"value with zero status", response.JSONWithStatus(true, 0), http.StatusOK, "true\n"},
		{"not modified has no body", response.JSONWithStatus("x", http.StatusNotModified), http.StatusNotModified, ""},
		{"nil with explicit status", response.JSONWithStatus(nil, http.StatusOK), http.StatusOK, "null\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := render(t, tt.resp)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestJSONEncodeError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	err := response.JSON(make(chan int))(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	w := httptest.NewRecorder()
	err := response.Error(errBoom)(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, w.Flushed)
	assert.Empty(t, w.Body.String())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	e := response.NewHTTPError("database unreachable")
	assert.Equal(t, http.StatusInternalServerError, e.StatusCode())
	assert.Equal(t, "database unreachable", e.Error())

	custom := response.ErrNotFound.WithMessage("user not found").WithDetails(map[string]any{"id": "42"})
	assert.Equal(t, "user not found", custom.Message)
	assert.Equal(t, "42", custom.Details["id"])
	assert.Equal(t, http.StatusText(http.StatusNotFound), response.ErrNotFound.Message)

	withCause := response.ErrBadRequest.WithError(errors.New("invalid json"))
	assert.Equal(t, "invalid json", withCause.Details["cause"])
}

type statusErr struct{ status int }

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e statusErr) StatusCode() int { return e.status }

func TestErrorHandlersThroughRouter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		panics     bool
		wantStatus int
		wantText   string
		wantCode   string
	}{
		{name: "plain error", path: "/fail", err: errors.New("db down"), wantStatus: 500, wantText: "Internal Server Error", wantCode: "internal_server_error"},
		{name: "http error", path: "/fail", err: response.ErrConflict.WithMessage("email taken"), wantStatus: 409, wantText: "email taken", wantCode: "conflict"},
		{name: "status code error", path: "/fail", err: statusErr{http.StatusTooManyRequests}, wantStatus: 429, wantText: "Too Many Requests", wantCode: "too_many_requests"},
		{name: "wrapped status code error", path: "/fail", err: fmt.Errorf("auth: %w", statusErr{http.StatusUnauthorized}), wantStatus: 401, wantText: "Unauthorized", wantCode: "unauthorized"},
		{name: "unknown status", path: "/fail", err: statusErr{599}, wantStatus: 500, wantText: "Internal Server Error", wantCode: "internal_server_error"},
		{name: "route not found", path: "/missing", wantStatus: 404, wantText: "Not Found", wantCode: "not_found"},
		{name: "panic", path: "/fail", panics: true, wantStatus: 500, wantText: "Internal Server Error", wantCode: "internal_server_error"},
	}

	newRouter := func(eh handler.ErrorHandler[*router.Context], err error, panics bool) router.Router[*router.Context] {
		r := router.New[*router.Context](router.WithErrorHandler(eh))
		r.Get("/fail", func(*router.Context) handler.Response {
			if panics {
				panic("secret internal state")
			}
			return response.Error(err)
		})
		return r
	}

	for _, tt := range tests {
		t.Run(tt.name+"/text", func(t *testing.T) {
			t.Parallel()

			r := newRouter(response.ErrorHandler[*router.Context], tt.err, tt.panics)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantText, w.Body.String())
			assert.NotContains(t, w.Body.String(), "secret")
		})

		t.Run(tt.name+"/json", func(t *testing.T) {
			t.Parallel()

			r := newRouter(response.JSONErrorHandler[*router.Context], tt.err, tt.panics)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			var body struct {
				Code    string         `json:"code"`
				Message string         `json:"message"`
				Details map[string]any `json:"details"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantText, body.Message)
			assert.NotContains(t, w.Body.String(), "secret")
		})
	}
}
