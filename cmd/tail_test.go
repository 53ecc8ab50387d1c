package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
)

func TestTailPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newTailPrinter(&buf, "15:04:05")

	assets := testAssets()
	updated := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)

	p.Print(services.View{State: domain.StateDisconnected})
	if buf.Len() != 0 {
		t.Fatalf("nothing should print before a transport is chosen: %q", buf.String())
	}

	p.Print(services.View{Kind: domain.TransportWebSocket, State: domain.StateConnecting})
	p.Print(services.View{Kind: domain.TransportWebSocket, State: domain.StateConnected})
	p.Print(services.View{
		Kind: domain.TransportWebSocket, State: domain.StateConnected,
		Snapshot: assets, Live: true, UpdatedAt: updated,
	})
	p.Print(services.View{
		Kind: domain.TransportWebSocket, State: domain.StateConnected,
		Snapshot: assets, Live: true, UpdatedAt: updated.Add(time.Second),
		Highlights: domain.NewHighlightSet(assets[1].ID),
	})
	// Highlight expiry republishes the same snapshot
	p.Print(services.View{
		Kind: domain.TransportWebSocket, State: domain.StateConnected,
		Snapshot: assets, Live: true, UpdatedAt: updated.Add(time.Second),
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Connecting") || !strings.Contains(lines[1], "Connected") {
		t.Errorf("state lines wrong:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "3 assets (live)") || strings.Contains(lines[2], "changed") {
		t.Errorf("snapshot line wrong: %q", lines[2])
	}
	if !strings.Contains(lines[3], "changed: Rock_Formation (a1b2c3d4)") {
		t.Errorf("change line wrong: %q", lines[3])
	}
}

func TestTailPrinterRetry(t *testing.T) {
	var buf bytes.Buffer
	p := newTailPrinter(&buf, "15:04:05")

	p.Print(services.View{Kind: domain.TransportSSE, State: domain.StateDisconnected, RetryIn: 3 * time.Second})
	p.Print(services.View{Kind: domain.TransportSSE, State: domain.StateReconnecting})

	out := buf.String()
	if !strings.Contains(out, "retry in 3s") || !strings.Contains(out, "Reconnecting") {
		t.Errorf("output = %q", out)
	}
}

func TestTailPrinterInitialSnapshot(t *testing.T) {
	var buf bytes.Buffer
	p := newTailPrinter(&buf, "15:04:05")

	p.Print(services.View{Snapshot: testAssets(), UpdatedAt: time.Now()})
	if !strings.Contains(buf.String(), "3 assets (initial)") {
		t.Errorf("output = %q", buf.String())
	}
}
