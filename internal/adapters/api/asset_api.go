// Package api is the REST client for the asset backend
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
)

// ErrNotFound is returned when the backend has no asset with the given id
var ErrNotFound = errors.New("asset not found")

const assetsPath = "/api/assets"

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 8 << 20

// Client implements ports.AssetAPI over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.AssetAPI = (*Client)(nil)

// New creates a client rooted at baseURL. A nil httpClient falls back to a
// plain http.Client.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the normalized base url
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAssets fetches GET /api/assets
func (c *Client) ListAssets(ctx context.Context) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := c.getJSON(ctx, assetsPath, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid asset list: %w", err)
	}
	return snapshot, nil
}

// GetAsset fetches GET /api/assets/{id}
func (c *Client) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	var asset domain.Asset
	if err := c.getJSON(ctx, assetsPath+"/"+url.PathEscape(id), &asset); err != nil {
		return nil, fmt.Errorf("failed to get asset %s: %w", id, err)
	}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid asset %s: %w", id, err)
	}
	return &asset, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxBodyBytes)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %s: %s", resp.Status, errorDetail(body))
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorDetail extracts a FastAPI-style {"detail": "..."} message, or the
// first line of the body
func errorDetail(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	return line
}
