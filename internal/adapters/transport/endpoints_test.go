package transport

import (
	"net/http"
	"testing"
	"time"
)

func TestSocketURL(t *testing.T) {
	tests := []struct {
		base    string
		path    string
		want    string
		wantErr bool
	}{
		{base: "http://localhost:8000", path: "/ws", want: "ws://localhost:8000/ws"},
		{base: "https://assets.example.com/", path: "ws", want: "wss://assets.example.com/ws"},
		{base: "HTTPS://assets.example.com/prefix/", path: "/ws", want: "wss://assets.example.com/prefix/ws"},
		{base: "ws://localhost:8000?x=1", path: "/ws", want: "ws://localhost:8000/ws"},
		{base: "ftp://localhost", path: "/ws", wantErr: true},
		{base: "", path: "/ws", wantErr: true},
		{base: "localhost:8000", path: "/ws", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got, err := SocketURL(tt.base, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SocketURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "http://localhost:8000", want: "http://localhost:8000/api/assets/stream"},
		{base: "https://assets.example.com", want: "https://assets.example.com/api/assets/stream"},
		{base: "wss://assets.example.com", want: "https://assets.example.com/api/assets/stream"},
	}

	for _, tt := range tests {
		got, err := StreamURL(tt.base, DefaultStreamPath)
		if err != nil {
			t.Fatalf("StreamURL(%q) error: %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("StreamURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	client, err := NewHTTPClient(HTTPOptions{DialTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewHTTPClient() error: %v", err)
	}
	if client.Timeout != 0 {
		t.Error("client must not carry an overall timeout")
	}
	tr, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport = %T", client.Transport)
	}
	if tr.ResponseHeaderTimeout != 2*time.Second {
		t.Errorf("ResponseHeaderTimeout = %v", tr.ResponseHeaderTimeout)
	}
	if _, ok := tr.TLSNextProto["h2"]; !ok {
		t.Error("http2 was not configured")
	}
}
