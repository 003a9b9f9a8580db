package registry

import "errors"

// Domain errors for registry lookups.
var (
	// ErrTransport indicates the registry could not be reached or the
	// response could not be read.
	ErrTransport = errors.New("registry request failed")

	// ErrHTTPStatus indicates the registry answered with a non-2xx status.
	ErrHTTPStatus = errors.New("registry returned unexpected status")

	// ErrEmptyResponse indicates the registry answered 2xx with no payload.
	ErrEmptyResponse = errors.New("registry returned an empty response")

	// ErrResponseTooLarge indicates the response body exceeded the read limit.
	ErrResponseTooLarge = errors.New("registry response too large")

	// ErrUnknownKind indicates an identifier kind the registry does not serve.
	ErrUnknownKind = errors.New("unknown identifier kind")
)
