package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/core/domain"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var (
	tailVerbose bool
	tailNoSeed  bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print live changes without the full-screen view",
	Long: `Follow the asset server and print one line per state change and
per snapshot, listing the assets that changed. Stops on Ctrl+C.

Examples:
  assetwatch tail
  assetwatch tail --transport sse --verbose`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVarP(&tailVerbose, "verbose", "v", false, "Also log connection events to stderr")
	tailCmd.Flags().BoolVar(&tailNoSeed, "no-seed", false, "Skip the initial REST fetch")
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := appLogger
	if tailVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	loop := eventloop.New(logger)
	loop.Start()
	defer loop.Stop()

	facade, err := newFacade(loop, logger)
	if err != nil {
		return err
	}
	defer facade.Close()

	printer := newTailPrinter(os.Stdout, appConfig.DateFormat)
	unsubscribe := facade.Subscribe(printer.Print)
	defer unsubscribe()

	if !tailNoSeed {
		if err := facade.Seed(ctx); err != nil {
			fmt.Fprintln(os.Stderr, ui.FormatWarning(err.Error()))
		}
	}

	if err := facade.Select(appConfig.TransportKind()); err != nil {
		return err
	}
	followConfig(ctx, facade, logger)

	<-ctx.Done()
	return nil
}

// tailPrinter turns the stream of views into log lines. It prints state
// transitions and new snapshots, and ignores highlight expiry.
type tailPrinter struct {
	out        io.Writer
	dateFormat string

	kind      domain.TransportKind
	state     domain.ConnectionState
	updatedAt time.Time
	printed   bool
}

func newTailPrinter(out io.Writer, dateFormat string) *tailPrinter {
	return &tailPrinter{out: out, dateFormat: dateFormat}
}

// Print is a facade subscriber and runs on the event loop
func (p *tailPrinter) Print(v services.View) {
	if !p.printed || v.Kind != p.kind || v.State != p.state {
		p.kind, p.state = v.Kind, v.State
		if v.Kind != "" {
			p.line(connectionStatus(v))
		}
	}

	if !v.UpdatedAt.IsZero() && !v.UpdatedAt.Equal(p.updatedAt) {
		p.updatedAt = v.UpdatedAt
		p.line(p.snapshotLine(v))
	}
	p.printed = true
}

func (p *tailPrinter) snapshotLine(v services.View) string {
	source := "live"
	if !v.Live {
		source = "initial"
	}
	msg := fmt.Sprintf("%s %d assets (%s)", ui.IconAsset, len(v.Snapshot), source)

	changed := v.Highlights.IDs()
	if len(changed) == 0 {
		return msg
	}

	names := make([]string, 0, len(changed))
	for _, id := range changed {
		if a, ok := v.Snapshot.Find(id); ok {
			names = append(names, fmt.Sprintf("%s (%s)", a.Name, a.ShortID()))
		} else {
			names = append(names, id)
		}
	}
	return msg + " " + ui.FormatHighlight("changed: "+strings.Join(names, ", "))
}

func (p *tailPrinter) line(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", ui.FormatMuted(time.Now().Format(p.dateFormat)), msg)
}
