package response

import (
	"net/http"

	"github.com/dmitrymomot/rapina/core/handler"
)

// Error returns a response that fails with err when rendered, handing it to
// the enclosing middleware and finally to the router's error handler.
func Error(err error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}
