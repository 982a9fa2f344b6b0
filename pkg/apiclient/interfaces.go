package apiclient

import "net/http"

// Doer abstracts the HTTP transport so callers can inject mocks or
// differently configured clients. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
