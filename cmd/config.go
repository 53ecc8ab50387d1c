package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/assetwatch/pkg/appdir"
	"github.com/kamal-hamza/assetwatch/pkg/config"
	"github.com/kamal-hamza/assetwatch/pkg/ui"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change the assetwatch configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.FormatTitle("Configuration"))
		fmt.Println(ui.FormatMuted(configPath))
		fmt.Println()
		return printConfig(os.Stdout, appConfig)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Long: `Change one setting and save the file.

Running watch or tail sessions pick up a new transport immediately.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Start from the file, not from flag overrides
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			fmt.Println(ui.FormatError(err.Error()))
			fmt.Println(ui.FormatInfo("Run 'assetwatch config show' to list the keys"))
			return err
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		value, _ := cfg.Get(args[0])
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s = %s", args[0], value)))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			fmt.Println(ui.FormatWarning("Config already exists: " + path))
			fmt.Println(ui.FormatInfo("Use --force to overwrite it"))
			return nil
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Wrote " + path))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Ensure it exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			if err := appConfig.Save(configPath); err != nil {
				return err
			}
		}

		fmt.Println(ui.FormatInfo("Opening config: " + configPath))

		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		c := exec.Command(editor, configPath)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
}

// resolveConfigPath works without initializeApp
func resolveConfigPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	dirs, err := appdir.New()
	if err != nil {
		return "", fmt.Errorf("failed to resolve directories: %w", err)
	}
	return dirs.ConfigPath, nil
}

func printConfig(w io.Writer, cfg *config.Config) error {
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if value == "" {
			value = ui.FormatMuted("(unset)")
		}
		fmt.Fprintln(w, ui.RenderKeyValue(key, value))
	}
	return nil
}
