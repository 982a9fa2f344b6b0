package apiclient

import "net/http"

// QueryParam is a single query-string entry. A slice keeps caller order and
// allows the same key more than once; entries are appended, never overwritten.
type QueryParam struct {
	Key   string
	Value string
}

// Options control a single dispatch. The zero value issues a GET with no
// body, no extra headers, and no query parameters.
type Options struct {
	// Method defaults to GET.
	Method string

	// Headers override the client's default headers, which in turn override
	// the built-in Content-Type: application/json. Keys are canonicalized by
	// net/http when applied, so entries differing only in letter case
	// collapse to a single header, with the later layer winning.
	Headers map[string]string

	// Body, when non-nil, is JSON-encoded and sent as the request payload
	// regardless of method. Nil sends no payload.
	Body any

	// Query entries are appended to the resolved URL in order.
	Query []QueryParam

	// Modify, when set, is applied to the outgoing request just before
	// dispatch, for transport-level options the other fields do not cover.
	// Method and body receive special handling and should not be replaced
	// here.
	Modify func(*http.Request)
}
