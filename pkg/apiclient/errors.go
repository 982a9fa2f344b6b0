package apiclient

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// HTTPError reports a response whose status is outside the success range
// (2xx/3xx). Transport-level failures are never wrapped in HTTPError; they
// propagate from the underlying Doer unchanged.
type HTTPError struct {
	StatusCode int
	Status     string // reason phrase, e.g. "Not Found"
	Body       any    // decoded response body (JSON value or text)
	RawBody    []byte
	Response   *http.Response // original response; its body is already consumed
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d %s", e.StatusCode, e.Status)
}

// statusText extracts the reason phrase from a response status line, falling
// back to the standard phrase for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
