package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dailies/internal/config"
	"dailies/internal/services"
)

// HTTPDoer describes the HTTP client used by the bridge.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Bridge connects to an externally running editor's scripting gateway. The
// editor being closed is an expected, common state: Connect reports it as a
// NotFound-kind error and callers skip binding entirely.
type Bridge interface {
	Connect(ctx context.Context) (*Session, error)
}

// Client is an HTTP-backed bridge.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs a bridge client from editor configuration.
func NewClient(cfg config.Editor) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client (for testing).
func (c *Client) WithHTTPClient(client HTTPDoer) *Client {
	c.client = client
	return c
}

// Connect checks the gateway and returns a Session when the editor is
// reachable.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	if c.baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "editor", "connect", "bridge url not configured", nil)
	}
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, nil); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "editor", "connect", "editor not reachable", err)
	}
	return &Session{client: c}, nil
}

// Session is an authenticated connection to a running editor.
type Session struct {
	client *Client
}

// EnsureProject creates or loads a same-named project in the editor.
func (s *Session) EnsureProject(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	if err := s.client.do(ctx, http.MethodPost, "/api/projects", body, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "editor", "ensure project", name, err)
	}
	return nil
}

// CreateBin creates a media bin inside the named project. Existing bins are
// a no-op on the gateway side.
func (s *Session) CreateBin(ctx context.Context, project, bin string) error {
	path := fmt.Sprintf("/api/projects/%s/bins", url.PathEscape(project))
	body := map[string]string{"name": bin}
	if err := s.client.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "editor", "create bin", bin, err)
	}
	return nil
}

// ImportMedia imports the given file paths into a bin and reports how many
// the editor accepted.
func (s *Session) ImportMedia(ctx context.Context, project, bin string, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	reqBody := map[string]any{"bin": bin, "paths": paths}
	var resp struct {
		Imported int `json:"imported"`
	}
	path := fmt.Sprintf("/api/projects/%s/import", url.PathEscape(project))
	if err := s.client.do(ctx, http.MethodPost, path, reqBody, &resp); err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "editor", "import media", "", err)
	}
	return resp.Imported, nil
}

// CreateTimeline creates an empty timeline in the named project.
func (s *Session) CreateTimeline(ctx context.Context, project, timeline string) error {
	path := fmt.Sprintf("/api/projects/%s/timelines", url.PathEscape(project))
	body := map[string]string{"name": timeline}
	if err := s.client.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return services.Wrap(services.ErrExternalTool, "editor", "create timeline", timeline, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("editor bridge returned %d for %s", resp.StatusCode, path)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
