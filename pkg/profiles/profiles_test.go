package profiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - id: example
    name: Example API
    base_url: https://api.example.com
    headers:
      Accept: application/json
    auth_token_env: EXAMPLE_TOKEN
    timeout_seconds: 10
  - id: other
    name: Other API
    base_url: https://other.example.com/
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].ID != "example" || all[1].ID != "other" {
		t.Fatalf("file order not preserved: %v, %v", all[0].ID, all[1].ID)
	}

	p, ok := reg.ByID("example")
	if !ok {
		t.Fatalf("ByID(example) not found")
	}
	if p.BaseURL != "https://api.example.com" {
		t.Fatalf("BaseURL = %q", p.BaseURL)
	}
	if p.Headers["Accept"] != "application/json" {
		t.Fatalf("Headers = %v", p.Headers)
	}
	if p.AuthTokenEnv != "EXAMPLE_TOKEN" {
		t.Fatalf("AuthTokenEnv = %q", p.AuthTokenEnv)
	}
	if p.RequestTimeout() != 10*time.Second {
		t.Fatalf("RequestTimeout = %v", p.RequestTimeout())
	}

	// Entry without timeout gets the default.
	other, _ := reg.ByID("other")
	if other.RequestTimeout() != defaultTimeoutSeconds*time.Second {
		t.Fatalf("default RequestTimeout = %v", other.RequestTimeout())
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "profiles.json", `{
  "profiles": [
    {"id": "j", "name": "JSON API", "base_url": "https://j.example.com"}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("j"); !ok {
		t.Fatalf("ByID(j) not found")
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	empty := writeFile(t, "empty.yaml", "profiles: []\n")
	if _, err := LoadRegistry(empty); err == nil {
		t.Fatalf("expected error for empty registry")
	}

	dup := writeFile(t, "dup.yaml", `
profiles:
  - id: a
    name: A
    base_url: https://a.example.com
  - id: a
    name: A again
    base_url: https://a2.example.com
`)
	if _, err := LoadRegistry(dup); err == nil || !strings.Contains(err.Error(), "duplicate profile id") {
		t.Fatalf("err = %v, want duplicate id error", err)
	}

	invalid := writeFile(t, "invalid.yaml", `
profiles:
  - id: a
    name: A
`)
	if _, err := LoadRegistry(invalid); err == nil || !strings.Contains(err.Error(), "base_url is required") {
		t.Fatalf("err = %v, want validation error", err)
	}

	malformed := writeFile(t, "malformed.yaml", "profiles: [\n")
	if _, err := LoadRegistry(malformed); err == nil || !strings.Contains(err.Error(), "decode yaml profiles") {
		t.Fatalf("err = %v, want the underlying yaml decode error", err)
	}

	unknown := writeFile(t, "profiles.txt", "whatever")
	if _, err := LoadRegistry(unknown); err == nil || !strings.Contains(err.Error(), "not recognized") {
		t.Fatalf("err = %v, want unrecognized format error", err)
	}
}

func TestByIDTrimsInput(t *testing.T) {
	path := writeFile(t, "profiles.yaml", `
profiles:
  - id: "  padded  "
    name: Padded
    base_url: https://p.example.com
`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID(" padded "); !ok {
		t.Fatalf("expected trimmed lookup to find sanitized id")
	}
	if _, ok := reg.ByID(""); ok {
		t.Fatalf("empty id must not match")
	}
}
