package main

import (
	"sort"
	"strconv"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/rapina/core/handler"
	"github.com/dmitrymomot/rapina/core/response"
	"github.com/dmitrymomot/rapina/core/router"
	"github.com/dmitrymomot/rapina/core/state"
)

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Views int64  `json:"views,omitempty"`
}

// userStore is the demo's in-memory user directory, shared through state.
type userStore struct {
	mu    sync.RWMutex
	users map[int]user
}

func newUserStore(users ...user) *userStore {
	s := &userStore{users: make(map[int]user, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *userStore) get(id int) (user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *userStore) list() []user {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]user, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func registerUserRoutes(r router.Router[*router.Context]) {
	r.Get("/users", listUsers, router.Name("list_users"))
	r.Get("/users/me", currentUser, router.Name("current_user"))
	r.Get("/users/:id", getUser, router.Name("get_user"))
}

func listUsers(ctx *router.Context) handler.Response {
	store := state.MustGet[*userStore](mustState(ctx))
	return response.JSON(store.list())
}

func currentUser(ctx *router.Context) handler.Response {
	store := state.MustGet[*userStore](mustState(ctx))
	u, _ := store.get(1)
	return response.JSON(u)
}

func getUser(ctx *router.Context) handler.Response {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return response.Error(response.ErrBadRequest.WithMessage("user id must be a number"))
	}

	store := state.MustGet[*userStore](mustState(ctx))
	u, ok := store.get(id)
	if !ok {
		return response.Error(response.ErrNotFound)
	}

	// View counting is optional and only active when redis is configured.
	if rdb, ok := state.From[goredis.UniversalClient](ctx); ok {
		views, err := rdb.Incr(ctx, "views:user:"+strconv.Itoa(id)).Result()
		if err != nil {
			return response.Error(err)
		}
		u.Views = views
	}

	return response.JSON(u)
}

func mustState(ctx *router.Context) *state.State {
	s, ok := state.FromContext(ctx)
	if !ok {
		panic("application state is not attached to the request")
	}
	return s
}
