package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/samvad-hq/prerok/internal/config"
	"github.com/samvad-hq/prerok/pkg/apiclient"
	"github.com/samvad-hq/prerok/pkg/profiles"
	"go.uber.org/zap"
)

// Invocation describes one request to perform.
type Invocation struct {
	Profile  string // profile id; falls back to the configured default
	Method   string
	Endpoint string
	Headers  map[string]string
	Query    []apiclient.QueryParam
	Body     string // raw JSON payload; empty means no payload
	Token    string // bearer token; overrides the profile's env-sourced token
}

// Requester represents the one-shot request runtime. It resolves a profile,
// builds a dispatch client from it, performs the call, and writes the
// decoded response to out.
type Requester struct {
	cfg *config.Config
	reg *profiles.Registry
	log *zap.SugaredLogger
	out io.Writer
}

// NewRequester builds a requester runtime from the profiles file named in cfg.
func NewRequester(cfg *config.Config, log *zap.SugaredLogger, out io.Writer) (*Requester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if out == nil {
		out = os.Stdout
	}

	reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
	if err != nil {
		return nil, fmt.Errorf("load profiles registry: %w", err)
	}
	loaded := reg.All()
	ids := make([]string, 0, len(loaded))
	for _, p := range loaded {
		ids = append(ids, p.ID)
	}
	log.Infow("profiles registry loaded", "count", len(ids), "ids", ids)

	return &Requester{cfg: cfg, reg: reg, log: log, out: out}, nil
}

// List writes the loaded profile ids and targets, one per line.
func (r *Requester) List() error {
	if r == nil || r.reg == nil {
		return fmt.Errorf("requester is not initialized")
	}
	for _, p := range r.reg.All() {
		if _, err := fmt.Fprintf(r.out, "%s\t%s\t%s\n", p.ID, p.Name, p.BaseURL); err != nil {
			return err
		}
	}
	return nil
}

// Run performs one request described by inv and writes the decoded response
// body to out: pretty-printed JSON for JSON responses, verbatim text
// otherwise.
func (r *Requester) Run(ctx context.Context, inv Invocation) error {
	if r == nil || r.reg == nil {
		return fmt.Errorf("requester is not initialized")
	}

	profileID := strings.TrimSpace(inv.Profile)
	if profileID == "" {
		profileID = strings.TrimSpace(r.cfg.DefaultProfile)
	}
	if profileID == "" {
		return fmt.Errorf("no profile selected and no default_profile configured")
	}
	profile, ok := r.reg.ByID(profileID)
	if !ok {
		return fmt.Errorf("unknown profile %q", profileID)
	}

	token := strings.TrimSpace(inv.Token)
	if token == "" && profile.AuthTokenEnv != "" {
		token = strings.TrimSpace(os.Getenv(profile.AuthTokenEnv))
	}

	headers := make(map[string]string, len(profile.Headers)+1)
	for k, v := range profile.Headers {
		headers[k] = v
	}
	if token != "" {
		for k, v := range apiclient.BearerAuth(token) {
			headers[k] = v
		}
	}

	// Profiles that set timeout_seconds win; otherwise the process-level
	// request timeout applies.
	timeout := profile.RequestTimeout()
	if profile.TimeoutSeconds <= 0 && r.cfg.RequestTimeout > 0 {
		timeout = r.cfg.RequestTimeout
	}

	client, err := apiclient.New(apiclient.Config{
		BaseURL:    profile.BaseURL,
		Headers:    headers,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     r.log,
	})
	if err != nil {
		return fmt.Errorf("build client for profile %q: %w", profileID, err)
	}

	opts := apiclient.Options{
		Method:  inv.Method,
		Headers: inv.Headers,
		Query:   inv.Query,
	}
	if inv.Body != "" {
		if !json.Valid([]byte(inv.Body)) {
			return fmt.Errorf("request body is not valid JSON")
		}
		opts.Body = json.RawMessage(inv.Body)
	}

	body, err := client.Do(ctx, inv.Endpoint, opts)
	if err != nil {
		return err
	}

	return r.render(body)
}

func (r *Requester) render(body any) error {
	switch v := body.(type) {
	case nil:
		return nil
	case string:
		if _, err := fmt.Fprint(r.out, v); err != nil {
			return err
		}
		if !strings.HasSuffix(v, "\n") {
			_, err := fmt.Fprintln(r.out)
			return err
		}
		return nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response for output: %w", err)
		}
		_, err = fmt.Fprintln(r.out, string(data))
		return err
	}
}

// ParseHeaders converts repeatable "Key: Value" flag values to a header map.
func ParseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		key, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Key: Value\")", h)
		}
		headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return headers, nil
}

// ParseQuery converts repeatable "key=value" flag values to ordered query
// parameters, keeping duplicates.
func ParseQuery(raw []string) ([]apiclient.QueryParam, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make([]apiclient.QueryParam, 0, len(raw))
	for _, q := range raw {
		key, value, ok := strings.Cut(q, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", q)
		}
		params = append(params, apiclient.QueryParam{Key: key, Value: value})
	}
	return params, nil
}
