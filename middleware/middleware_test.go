package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
)

func text(s string) handler.HandlerFunc[*router.Context] {
	return func(*router.Context) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
