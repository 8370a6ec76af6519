// Package catalog looks Pokémon up in a PokéAPI-compatible service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ayush/pokecatch/backend/internal/models"
)

// Lookuper returns the raw catalog document for a Pokémon name.
type Lookuper interface {
	Lookup(ctx context.Context, name string) (json.RawMessage, error)
}

// maxBody caps how much of a catalog response is read.
const maxBody = 4 << 20

// Client calls the catalog over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup calls GET /pokemon/{name}. A 404 is models.ErrNotFound; any other
// failure wraps models.ErrUpstream.
func (c *Client) Lookup(ctx context.Context, name string) (json.RawMessage, error) {
	path := "/pokemon/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %v", models.ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, path); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: catalog %s: read: %v", models.ErrUpstream, path, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: catalog %s: response is not JSON", models.ErrUpstream, path)
	}
	return json.RawMessage(body), nil
}

// checkResp returns an error if the status is not 2xx, including the
// upstream body for debugging.
func checkResp(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: catalog %s returned %d: %s", models.ErrUpstream, path, resp.StatusCode, string(body))
}
