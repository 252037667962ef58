package server

import (
	"net"
	"net/http"
	"sync/atomic"
)

// tracker counts connections through http.Server.ConnState. Callbacks come
// from every connection goroutine, so counters are atomic.
type tracker struct {
	active   atomic.Int64
	accepted atomic.Uint64
	metrics  *Metrics
}

func (t *tracker) connState(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		t.active.Add(1)
		t.accepted.Add(1)
		t.metrics.connOpened()
	case http.StateHijacked, http.StateClosed:
		t.active.Add(-1)
		t.metrics.connClosed()
	}
}

// Active returns the number of open connections.
func (t *tracker) Active() int64 {
	return t.active.Load()
}

// Accepted returns the number of connections accepted so far.
func (t *tracker) Accepted() uint64 {
	return t.accepted.Load()
}
