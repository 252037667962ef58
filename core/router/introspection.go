package router

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/dmitrymomot/rapina/core/handler"
)

const (
	// IntrospectionPath serves the list of named routes as JSON.
	IntrospectionPath = "/__rapina/routes"

	// IntrospectionName is the handler name of the introspection route itself.
	IntrospectionName = "rapina_routes"
)

// RouteInfo is one entry of the introspection response.
type RouteInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	HandlerName string `json:"handler_name"`
}

// collectRouteInfos keeps named routes, ordered by path then method.
func collectRouteInfos[H any](entries []*Entry[H]) []RouteInfo {
	infos := make([]RouteInfo, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		infos = append(infos, RouteInfo{
			Method:      e.Method,
			Path:        e.Pattern.String(),
			HandlerName: e.Name,
		})
	}
	slices.SortStableFunc(infos, func(a, b RouteInfo) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	return infos
}

func (m *mux[C]) introspect(C) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return json.NewEncoder(w).Encode(m.routeInfos)
	}
}
