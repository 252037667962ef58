package state

import "errors"

// ErrNotProvided is the panic value of MustGet when no value of the requested type exists.
var ErrNotProvided = errors.New("state value not provided")
