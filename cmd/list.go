package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var (
	listTypeFilter string
	listSortBy     string
	listReverse    bool
	listSearch     string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List assets once from the REST API",
	Aliases: []string{"ls"},
	Long: `Fetch the current asset list and print it as a table.

Examples:
  assetwatch list
  assetwatch list --type glb
  assetwatch list --sort modified --reverse
  assetwatch list --search tree`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listTypeFilter, "type", "", "Filter by asset type (glb, gltf)")
	// Sort defaults to the server order, but we handle config override in runList
	listCmd.Flags().StringVar(&listSortBy, "sort", "", "Sort by field (name, modified, type, id)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Fuzzy search on name and id")
}

func runList(cmd *cobra.Command, args []string) error {
	// If the flag was NOT changed by the user, use the config default
	if !cmd.Flags().Changed("sort") {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	q := services.AssetQuery{
		Type:    domain.AssetType(listTypeFilter),
		SortBy:  listSortBy,
		Reverse: listReverse,
		Search:  listSearch,
	}

	ctx := getContext()
	resp, err := listService.Execute(ctx, q)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to list assets"))
		return err
	}

	printAssetList(os.Stdout, resp, q, appConfig.DateFormat)
	return nil
}

func printAssetList(w io.Writer, resp *services.ListResponse, q services.AssetQuery, dateFormat string) {
	// Handle empty results
	if len(resp.Assets) == 0 {
		if resp.Total > 0 {
			fmt.Fprintln(w, ui.FormatWarning(fmt.Sprintf("No assets match (%d total)", resp.Total)))
		} else {
			fmt.Fprintln(w, ui.FormatWarning("No assets found"))
		}
		return
	}

	// Print header
	if q.Type != "" {
		fmt.Fprintln(w, ui.FormatTitle(fmt.Sprintf("Assets (type: %s)", q.Type)))
	} else {
		fmt.Fprintln(w, ui.FormatTitle("Assets"))
	}
	fmt.Fprintln(w)

	table := ui.NewTable(assetColumns)
	for _, asset := range resp.Assets {
		table.AddRow(assetRow(asset, dateFormat))
	}
	fmt.Fprint(w, table.Render())
	fmt.Fprintln(w)

	// Print summary
	if len(resp.Assets) != resp.Total {
		fmt.Fprintln(w, ui.FormatMuted(fmt.Sprintf("Showing %d of %d assets", len(resp.Assets), resp.Total)))
	} else {
		fmt.Fprintln(w, ui.FormatMuted(fmt.Sprintf("Total: %d assets", resp.Total)))
	}
}
