// Package profiles loads named API target configs (YAML/JSON) for reuse
// across invocations: base URL, default headers, token source, timeout.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultTimeoutSeconds = 30

// Profile describes one API target.
type Profile struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	BaseURL        string            `json:"base_url" yaml:"base_url"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	AuthTokenEnv   string            `json:"auth_token_env" yaml:"auth_token_env"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// RequestTimeout returns the per-profile request timeout, falling back to
// the default when unset. A zero TimeoutSeconds is kept as loaded so callers
// can substitute their own fallback.
func (p Profile) RequestTimeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Registry holds the loaded profiles, indexed by id.
type Registry struct {
	profiles []Profile
	idx      map[string]Profile
}

// All returns a copy of the loaded profiles in file order.
func (r *Registry) All() []Profile {
	if r == nil || len(r.profiles) == 0 {
		return nil
	}
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// ByID returns the profile with the given id, if loaded.
func (r *Registry) ByID(id string) (Profile, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Profile{}, false
	}
	p, ok := r.idx[id]
	return p, ok
}

type registryFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// LoadRegistry reads a profiles file, validates every entry, and returns the
// registry. The format is detected by file extension (yaml/yml/json).
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	reg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	if len(reg.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	idx := make(map[string]Profile, len(reg.Profiles))
	for i := range reg.Profiles {
		p := sanitizeProfile(reg.Profiles[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profile[%d]: %w", i, err)
		}
		if _, exists := idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.Profiles[i] = p
		idx[p.ID] = p
	}

	return &Registry{profiles: reg.Profiles, idx: idx}, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var firstErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg registryFile
		err := d.fn(data, &reg)
		if err == nil {
			return reg, nil
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("decode %s profiles: %w", d.name, err)
		}
	}

	if firstErr != nil {
		return registryFile{}, firstErr
	}
	return registryFile{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

func sanitizeProfile(p Profile) Profile {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimSpace(p.BaseURL)
	p.AuthTokenEnv = strings.TrimSpace(p.AuthTokenEnv)

	if p.Headers == nil {
		p.Headers = map[string]string{}
	}

	return p
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for profile %q", p.ID)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.ID)
	}
	return nil
}
