package api

import "errors"

// Error taxonomy for the image service. Callers match with errors.Is;
// the wrapped message carries the status code or underlying cause.
var (
	// ErrFetch reports a transport, status or decode failure while reading the collection
	ErrFetch = errors.New("fetch images failed")

	// ErrUnauthorized reports a missing or rejected bearer token on delete
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound reports that the image no longer exists on the server
	ErrNotFound = errors.New("image not found")

	// ErrNetwork reports any other delete failure
	ErrNetwork = errors.New("network error")
)
