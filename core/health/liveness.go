package health

import (
	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/response"
)

// Liveness answers 200 "ALIVE" as long as the process serves requests.
func Liveness[C handler.Context](C) handler.Response {
	return response.WithHeaders(response.String("ALIVE"), noStore)
}

// NoContent answers 204, for probes that ignore the body.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}

var noStore = map[string]string{"Cache-Control": "no-store"}
