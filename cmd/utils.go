package cmd

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

// OpenFile opens a file with the OS default application.
func OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	// Start detaches so the viewer outlives us
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	return nil
}

// assetJSON renders an asset the way the server sends it
func assetJSON(asset domain.Asset) string {
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", asset)
	}
	return string(data)
}

// highlightJSON colors JSON for the terminal, returning the input unchanged
// when highlighting fails
func highlightJSON(content string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	err = formatter.Format(&buf, style, iterator)
	if err != nil {
		return content
	}

	return buf.String()
}

// assetRow is the cell layout of the list table
func assetRow(asset domain.Asset, dateFormat string) []string {
	return []string{
		asset.ShortID(),
		asset.Name,
		string(asset.Type),
		asset.FormatModified(dateFormat),
	}
}

var assetColumns = []ui.TableColumn{
	{Header: "ID", Width: 8},
	{Header: "Name", Width: 12, MaxWidth: 40},
	{Header: "Type", Width: 4},
	{Header: "Modified", Width: 10},
}

// badgeLevel maps a connection state to its badge color
func badgeLevel(state domain.ConnectionState) ui.StatusLevel {
	switch state {
	case domain.StateConnected:
		return ui.StatusOK
	case domain.StateConnecting, domain.StateReconnecting:
		return ui.StatusPending
	default:
		return ui.StatusDown
	}
}

// connectionStatus renders the transport badge plus the retry budget while
// the connection is down
func connectionStatus(v services.View) string {
	kind := v.Kind.Label()
	if kind == "" {
		kind = "NONE"
	}
	state := v.State.Label()
	if v.RetryIn > 0 {
		state += fmt.Sprintf(" (retry in %s)", v.RetryIn.Round(time.Second))
	}
	return ui.RenderBadge(kind, state, badgeLevel(v.State))
}

// nextType cycles "" → glb → gltf → ""
func nextType(current domain.AssetType) domain.AssetType {
	if current == "" {
		return domain.AssetTypes[0]
	}
	for i, t := range domain.AssetTypes {
		if t == current && i+1 < len(domain.AssetTypes) {
			return domain.AssetTypes[i+1]
		}
	}
	return ""
}

// nextSort cycles through "" and the service sort keys
func nextSort(current string) string {
	if current == "" {
		return services.SortKeys[0]
	}
	for i, k := range services.SortKeys {
		if k == current && i+1 < len(services.SortKeys) {
			return services.SortKeys[i+1]
		}
	}
	return ""
}
