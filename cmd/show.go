package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/adapters/api"
	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var (
	showJSON  bool
	showPlain bool
)

// findAsset is the picker used when no id is given
var findAsset = fuzzyfinder.Find

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one asset",
	Long: `Fetch a single asset from the REST API.

Without an id, an interactive fuzzy finder lists all assets.

Examples:
  assetwatch show 3f9c2a1e-...
  assetwatch show --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the asset as JSON")
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "Disable JSON syntax highlighting")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		picked, err := pickAsset(ctx, listService)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				fmt.Println(ui.FormatInfo("Selection cancelled."))
				return nil
			}
			return err
		}
		if picked == nil {
			fmt.Println(ui.FormatWarning("No assets found"))
			return nil
		}
		id = picked.ID
	}

	asset, err := listService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			fmt.Println(ui.FormatError("No asset with id " + id))
		}
		return err
	}

	printAsset(os.Stdout, *asset, showJSON, !showPlain, appConfig.DateFormat)
	return nil
}

// pickAsset lets the user choose an asset; nil means there was nothing to pick
func pickAsset(ctx context.Context, svc *services.ListService) (*domain.Asset, error) {
	resp, err := svc.Execute(ctx, services.AssetQuery{SortBy: services.SortByName})
	if err != nil {
		return nil, err
	}
	assets := resp.Assets
	if len(assets) == 0 {
		return nil, nil
	}

	idx, err := findAsset(
		assets,
		func(i int) string {
			a := assets[i]
			return fmt.Sprintf("%s  %s  %s", a.Name, a.Type, a.ShortID())
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return assetPreview(assets[i])
		}),
	)
	if err != nil {
		return nil, err
	}
	return &assets[idx], nil
}

func assetPreview(a domain.Asset) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("Name: %s\n", a.Name))
	s.WriteString(fmt.Sprintf("Type: %s\n", a.Type))
	s.WriteString(fmt.Sprintf("ID:   %s\n", a.ID))
	s.WriteString(fmt.Sprintf("Modified: %s\n", a.LastModified))
	return s.String()
}

func printAsset(w io.Writer, asset domain.Asset, asJSON, color bool, dateFormat string) {
	if asJSON {
		out := assetJSON(asset)
		if color {
			out = highlightJSON(out)
		}
		fmt.Fprintln(w, out)
		return
	}

	fmt.Fprintln(w, ui.FormatTitle(ui.IconAsset+" "+asset.Name))
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.RenderKeyValue("ID", asset.ID))
	fmt.Fprintln(w, ui.RenderKeyValue("Type", string(asset.Type)))
	fmt.Fprintln(w, ui.RenderKeyValue("Modified", asset.FormatModified(dateFormat)))
}
