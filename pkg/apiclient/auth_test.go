package apiclient

import "testing"

func TestBearerAuth(t *testing.T) {
	got := BearerAuth("abc123")
	if len(got) != 1 {
		t.Fatalf("expected a single-entry mapping, got %v", got)
	}
	if got["Authorization"] != "Bearer abc123" {
		t.Fatalf("Authorization = %q", got["Authorization"])
	}
}
