// Dashpanel is a terminal editor for the cards of a dashboard document.
//
// Running it with a document file opens the interactive editor: select a
// card to edit its title, description, theme and layout, or stay in the
// all-cards view to apply a theme or layout to every card at once. The
// same edits are available as scriptable subcommands.
//
// Usage:
//
//	dashpanel [document] [flags]
//	dashpanel [command] [flags]
//
// See 'dashpanel --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/dashpanel/internal/config"
	"github.com/muurk/dashpanel/internal/dashboard"
	"github.com/muurk/dashpanel/internal/docstore"
	"github.com/muurk/dashpanel/internal/logging"
	"github.com/muurk/dashpanel/internal/panel"
	"github.com/muurk/dashpanel/internal/preview"
	"github.com/muurk/dashpanel/internal/tui"
	"github.com/muurk/dashpanel/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Root command flags
var (
	logLevel    string
	logFile     string
	previewAddr string
	advertise   bool
	resetTabs   bool
)

var rootCmd = &cobra.Command{
	Use:   "dashpanel [document]",
	Short: "Dashboard card editor",
	Long: `A terminal editor for the cards of a dashboard document.

With a card selected, changes apply to that card only. With no card
selected, theme and layout changes apply to every card in the document.

If no document is given, the most recently opened one is used.`,
	Example: `  # Edit a document
  dashpanel board.yaml

  # Edit with a live preview on a websocket
  dashpanel board.yaml --preview 127.0.0.1:8765

  # Announce the preview on the local network
  dashpanel board.yaml --preview :8765 --advertise`,
	Version: version.Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runEditor,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logging is off when empty")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default: dashpanel.log in the config directory while the editor runs)")

	rootCmd.Flags().StringVar(&previewAddr, "preview", "", "Start the live preview server on this address")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the preview server over mDNS")
	rootCmd.Flags().BoolVar(&resetTabs, "reset-tabs", false, "Return card tabs to Collection whenever another card is selected")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel, logFile)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logging.Sync()
	}

	rootCmd.AddCommand(versionCmd)
}

func runEditor(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	path, err := documentPath(args, settings)
	if err != nil {
		return err
	}

	level, output, err := editorLogOutput(logLevel, logFile)
	if err != nil {
		return err
	}
	if output != "" {
		if err := logging.Initialize(level, output); err != nil {
			return err
		}
	}

	result, err := docstore.Load(path)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logging.Warn("Document warning", zap.String("path", path), zap.Error(w))
	}

	store := dashboard.NewStore(result.Document)

	settings.TouchRecent(path, result.Document.Name)
	if err := config.SaveGlobal(); err != nil {
		logging.Warn("Failed to save settings", zap.Error(err))
	}

	opts := tui.Options{
		Store: store,
		Path:  path,
		Panel: panel.Config{
			ResetSubViewOnCardChange: resetTabs || settings.Panel.ResetSubViewOnCardChange,
		},
	}

	if addr := previewAddress(cmd, settings); addr != "" {
		srv := preview.NewServer(store, preview.Config{
			Addr:        addr,
			Advertise:   advertise || settings.Preview.Advertise,
			ServiceName: settings.Preview.ServiceName,
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start preview server: %w", err)
		}
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Warn("Preview shutdown failed", zap.Error(err))
			}
		}()
		opts.PreviewAddr = srv.Addr()
	}

	return tui.Run(opts)
}

// editorLogOutput returns the level and file the editor logs to while it
// owns the terminal. output is "" when logging is off or already goes to a
// file chosen by flag or environment.
func editorLogOutput(flagLevel, flagFile string) (level, output string, err error) {
	level = flagLevel
	if level == "" {
		level = os.Getenv(logging.LogLevelEnvVar)
	}
	if level == "" || flagFile != "" || os.Getenv(logging.LogFileEnvVar) != "" {
		return level, "", nil
	}

	dir, err := config.GetConfigDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to find log directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create log directory: %w", err)
	}
	return level, filepath.Join(dir, "dashpanel.log"), nil
}

// documentPath picks the document to open: the argument, or the most
// recently opened one.
func documentPath(args []string, settings *config.Settings) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if recent := settings.MostRecent(); recent != nil {
		return recent.Path, nil
	}
	return "", fmt.Errorf("no document given and none opened before; create one with 'dashpanel new <file>'")
}

// previewAddress returns the preview listen address, or "" when the
// preview is off. --preview wins over the settings file; --advertise alone
// turns the preview on at the configured address.
func previewAddress(cmd *cobra.Command, settings *config.Settings) string {
	if cmd.Flags().Changed("preview") {
		return previewAddr
	}
	if advertise || settings.Preview.Advertise {
		return settings.Preview.Addr
	}
	return ""
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dashpanel %s\n", version.Full())
	},
}
