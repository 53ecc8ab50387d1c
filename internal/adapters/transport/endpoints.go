package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// Default endpoint paths relative to the base URL
const (
	DefaultSocketPath = "/ws"
	DefaultStreamPath = "/api/assets/stream"
)

// SocketURL derives the WebSocket endpoint from an HTTP base URL:
// http becomes ws and https becomes wss.
func SocketURL(base, path string) (string, error) {
	u, err := parseBase(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}
	return joinPath(u, path), nil
}

// StreamURL derives the SSE endpoint from a base URL
func StreamURL(base, path string) (string, error) {
	u, err := parseBase(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "http"
	case "https", "wss":
		u.Scheme = "https"
	default:
		return "", fmt.Errorf("unsupported scheme %q in base url", u.Scheme)
	}
	return joinPath(u, path), nil
}

func parseBase(base string) (*url.URL, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", base)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return u, nil
}

func joinPath(u *url.URL, path string) string {
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
