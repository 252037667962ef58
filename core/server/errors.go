package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrBindFailure          = errors.New("failed to bind listener")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrServerStopped        = errors.New("server has already stopped")
	ErrAcceptLoop           = errors.New("listener stopped accepting connections")
)
