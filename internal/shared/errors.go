package shared

import "errors"

var (
	// ErrConnect means the upstream connect or handshake failed.
	ErrConnect = errors.New("upstream connect failed")

	// ErrConnectionClosed means the socket closed while a request was in
	// flight and no terminal event had arrived.
	ErrConnectionClosed = errors.New("connection closed before completion")

	// ErrTimeout means a request exceeded its fixed time budget.
	ErrTimeout = errors.New("request timed out")

	// ErrUpstream means the provider reported an explicit error or ended a
	// response with a non-completed status.
	ErrUpstream = errors.New("upstream error")

	// ErrMalformedResponse means the provider output could not be parsed or
	// was missing a required field.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrEmptyOutput means the provider completed successfully but produced
	// no usable text or audio.
	ErrEmptyOutput = errors.New("empty output")
)
