package middleware

import (
	"net/http"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/router"
)

// nonNil turns a nil Response from an inner stage into one that fails with
// router.ErrNilResponse, so wrappers can always call what they hold.
func nonNil(resp handler.Response) handler.Response {
	if resp == nil {
		return func(http.ResponseWriter, *http.Request) error { return router.ErrNilResponse }
	}
	return resp
}
