package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
)

func TestFromHTTP(t *testing.T) {
	t.Parallel()

	std := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Std", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, r.URL.Path)
	})

	h := handler.FromHTTP[*router.Context](std)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := h(router.NewContext(w, r))
	require.NotNil(t, resp)
	require.NoError(t, resp(w, r))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Std"))
	assert.Equal(t, "/metrics", w.Body.String())
}
