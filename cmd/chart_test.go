package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
)

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	if err := renderChart(&buf, testAssets(), "REST"); err != nil {
		t.Fatalf("renderChart() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<html", "Assets by type", "Assets modified per day", "3 assets from REST"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart page missing %q", want)
		}
	}
}

func TestTypeCounts(t *testing.T) {
	items := typeCounts(testAssets())
	if len(items) != len(domain.AssetTypes) {
		t.Fatalf("got %d slices", len(items))
	}

	got := map[string]interface{}{}
	for _, it := range items {
		got[it.Name] = it.Value
	}
	if got["glb"] != 2 || got["gltf"] != 1 {
		t.Errorf("counts = %v", got)
	}
}

func TestModifiedPerDay(t *testing.T) {
	assets := append(testAssets(), domain.Asset{ID: "x", Name: "Broken", Type: domain.AssetTypeGLB, LastModified: "yesterday"})

	days, counts := modifiedPerDay(assets)
	want := []string{"2025-11-20", "2025-11-21", "unknown"}
	if len(days) != len(want) {
		t.Fatalf("days = %v", days)
	}
	for i, d := range want {
		if days[i] != d {
			t.Errorf("days[%d] = %s, want %s", i, days[i], d)
		}
	}
	if counts[1].Value != 2 || counts[2].Value != 1 {
		t.Errorf("counts = %v", counts)
	}
}
