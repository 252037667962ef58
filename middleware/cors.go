package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/rapina/core/handler"
)

// CORSConfig defines configuration options for CORS middleware.
type CORSConfig struct {
	// Skip allows bypassing CORS handling for specific requests
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists allowed origins. Empty or containing "*" allows any
	// origin and answers with the wildcard.
	AllowOrigins []string

	// AllowMethods lists methods announced in preflight responses.
	// Empty or containing "*" announces the wildcard.
	AllowMethods []string

	// AllowHeaders lists request headers announced in preflight responses.
	// Empty or containing "*" announces the wildcard.
	AllowHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials for explicitly
	// listed origins. It is never sent together with a wildcard origin.
	AllowCredentials bool

	// MaxAge specifies how long preflight results can be cached (in seconds)
	MaxAge int
}

// CORSPermissive allows any origin, method and header. Suitable for development.
func CORSPermissive() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"*"},
		AllowHeaders: []string{"*"},
	}
}

// CORSWithOrigins allows the given origins with the common REST methods and
// the Accept and Authorization headers.
func CORSWithOrigins(origins ...string) CORSConfig {
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{"Accept", "Authorization"},
	}
}

// CORS returns a permissive CORS middleware.
//
//	r.Use(middleware.CORS[*router.Context]())
//	r.Use(middleware.CORSWithConfig[*router.Context](middleware.CORSWithOrigins("https://app.example.com")))
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSPermissive())
}

// CORSWithConfig returns a CORS middleware with custom configuration.
//
// An OPTIONS request carrying an Origin header is treated as a preflight and
// answered with 204 without reaching the router, so no OPTIONS routes are
// needed. Every other request runs normally and gets the Allow-Origin header
// added when its origin is allowed. Both get "Vary: Origin".
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	anyOrigin := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")
	allowMethods := joinOrWildcard(cfg.AllowMethods)
	allowHeaders := joinOrWildcard(cfg.AllowHeaders)

	allowOriginsMap := make(map[string]struct{}, len(cfg.AllowOrigins))
	for _, origin := range cfg.AllowOrigins {
		allowOriginsMap[origin] = struct{}{}
	}

	allowedOrigin := func(origin string) (string, bool) {
		if anyOrigin {
			return "*", true
		}
		if _, ok := allowOriginsMap[origin]; ok && origin != "" {
			return origin, true
		}
		return "", false
	}

	setOriginHeaders := func(h http.Header, origin string) {
		if allowed, ok := allowedOrigin(origin); ok {
			h.Set("Access-Control-Allow-Origin", allowed)
			if cfg.AllowCredentials && allowed != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}
		h.Add("Vary", "Origin")
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			origin := req.Header.Get("Origin")

			if req.Method == http.MethodOptions && origin != "" {
				return func(w http.ResponseWriter, r *http.Request) error {
					h := w.Header()
					setOriginHeaders(h, origin)
					h.Set("Access-Control-Allow-Methods", allowMethods)
					h.Set("Access-Control-Allow-Headers", allowHeaders)
					if cfg.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}

			response := nonNil(next(ctx))

			return func(w http.ResponseWriter, r *http.Request) error {
				setOriginHeaders(w.Header(), origin)
				return response(w, r)
			}
		}
	}
}

func joinOrWildcard(values []string) string {
	if len(values) == 0 || slices.Contains(values, "*") {
		return "*"
	}
	return strings.Join(values, ", ")
}
