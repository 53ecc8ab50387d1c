package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/internal/adapters/api"
	"github.com/kamal-hamza/assetwatch/internal/adapters/transport"
	"github.com/kamal-hamza/assetwatch/internal/core/ports"
	"github.com/kamal-hamza/assetwatch/internal/core/services"
	"github.com/kamal-hamza/assetwatch/pkg/appdir"
	"github.com/kamal-hamza/assetwatch/pkg/config"
	"github.com/kamal-hamza/assetwatch/pkg/eventloop"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var (
	// Global paths and settings
	appDirs    *appdir.Dirs
	appConfig  *config.Config
	configPath string

	// Logging
	appLogger *slog.Logger
	logFile   *os.File

	// Collaborators
	httpClient  *http.Client
	assetAPI    *api.Client
	listService *services.ListService

	// Persistent flags
	configFlag    string
	baseURLFlag   string
	transportFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetwatch",
	Short: "assetwatch - live view of a remote asset store",
	Long: ui.StyleTitle.Render("assetwatch") + " - Live Asset Table\n\n" +
		"Follows an asset server over WebSocket or Server-Sent Events,\n" +
		"highlights what changed and reconnects on its own.",
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tailCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default is $XDG_CONFIG_HOME/assetwatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Asset server base URL (overrides base_url)")
	rootCmd.PersistentFlags().StringVar(&transportFlag, "transport", "", "Real-time transport: websocket or sse (overrides transport)")
}

// initializeApp loads configuration and wires the API collaborators
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that need no backend
	if cmd.Name() == "version" || cmd.Name() == "init" || cmd.Name() == "path" {
		return nil
	}

	dirs, err := appdir.New()
	if err != nil {
		return fmt.Errorf("failed to resolve directories: %w", err)
	}
	if err := dirs.Initialize(); err != nil {
		return err
	}
	appDirs = dirs

	configPath = dirs.ConfigPath
	if configFlag != "" {
		configPath = configFlag
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	appConfig = cfg

	ui.SetTheme(cfg.ColorTheme)

	if err := setupLogging(cfg, dirs); err != nil {
		return err
	}

	httpClient, err = transport.NewHTTPClient(transport.HTTPOptions{
		DialTimeout:           cfg.DialTimeout(),
		ResponseHeaderTimeout: cfg.DialTimeout(),
	})
	if err != nil {
		return err
	}

	assetAPI, err = api.New(cfg.BaseURL, httpClient)
	if err != nil {
		return err
	}
	listService = services.NewListService(assetAPI)

	appLogger.Debug("initialized", "command", cmd.Name(), "base_url", cfg.BaseURL, "transport", cfg.Transport)
	return nil
}

// shutdownApp releases what initializeApp opened
func shutdownApp(cmd *cobra.Command, args []string) error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

// applyFlagOverrides copies explicitly set persistent flags into cfg
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		if err := cfg.Set("base_url", baseURLFlag); err != nil {
			return err
		}
	}
	if flags.Changed("transport") {
		if err := cfg.Set("transport", transportFlag); err != nil {
			return err
		}
	}
	return nil
}

// setupLogging sends structured logs to the log file so they never
// interleave with terminal output
func setupLogging(cfg *config.Config, dirs *appdir.Dirs) error {
	path := cfg.LogFile
	if path == "" {
		path = dirs.LogPath()
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	appLogger = newLogger(f, cfg.LogLevel)
	slog.SetDefault(appLogger)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newFacade builds both transports from the config and binds them to sched
func newFacade(sched eventloop.Scheduler, logger *slog.Logger) (*services.Facade, error) {
	socketURL, err := transport.SocketURL(appConfig.BaseURL, appConfig.SocketPath)
	if err != nil {
		return nil, err
	}
	streamURL, err := transport.StreamURL(appConfig.BaseURL, appConfig.StreamPath)
	if err != nil {
		return nil, err
	}

	transports := []ports.Transport{
		transport.NewSocketTransport(socketURL, transport.SocketOptions{
			HandshakeTimeout: appConfig.DialTimeout(),
		}),
		transport.NewStreamTransport(streamURL, httpClient),
	}

	return services.NewFacade(sched, services.FacadeOptions{
		Transports: transports,
		API:        assetAPI,
		Backoff: services.Backoff{
			Floor:   appConfig.BackoffFloor(),
			Ceiling: appConfig.BackoffCeiling(),
		},
		HighlightWindow: appConfig.HighlightWindow(),
		Logger:          logger,
	})
}

// followConfig switches the facade's transport whenever the transport key
// of the config file changes. A --transport flag pins the transport.
func followConfig(ctx context.Context, facade *services.Facade, logger *slog.Logger) {
	if !appConfig.WatchConfig || transportFlag != "" {
		return
	}

	last := appConfig.TransportKind()
	debounce := appConfig.WatchDebounce()
	path := configPath

	go func() {
		err := config.Watch(ctx, path, debounce, logger, func(cfg *config.Config) {
			kind := cfg.TransportKind()
			if kind == last {
				return
			}
			last = kind
			logger.Info("transport changed in config", "transport", kind)
			if err := facade.Select(kind); err != nil {
				logger.Warn("failed to switch transport", "transport", kind, "error", err)
			}
		})
		if err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
