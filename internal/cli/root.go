// Package cli wires the desktop labeler's commands: the tray host, the
// headless server, and client and editing commands for the label document.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/ipc"
)

var version = "dev"

// SetVersion overrides the reported build version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// app carries the resolved settings shared by every command.
type app struct {
	configDir string
	endpoint  string
	debug     bool

	settings *config.Settings
	paths    config.Paths
	ep       ipc.Endpoint
}

func (a *app) load() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if a.configDir != "" {
		settings.ConfigDir = a.configDir
		settings.ConfigFile = ""
	}
	paths, err := settings.Paths()
	if err != nil {
		return err
	}

	override := settings.Endpoint
	if a.endpoint != "" {
		override = a.endpoint
	}

	a.settings = settings
	a.paths = paths
	a.ep = ipc.DefaultEndpoint(override)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "mddsklbl",
		Version: version,
		Short:   "Per-virtual-desktop labels with a local query service",
		Long: `mddsklbl keeps a title and description for each virtual desktop.

Run without arguments to start the tray host, which also answers label
queries from other local processes. The remaining commands query a running
host or edit the label document directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), a, true)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "Directory holding labels.json (overrides MDDSKLBL_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&a.endpoint, "endpoint", "", "Channel name (overrides MDDSKLBL_ENDPOINT)")

	root.AddGroup(
		&cobra.Group{ID: "host", Title: "Host:"},
		&cobra.Group{ID: "query", Title: "Queries:"},
		&cobra.Group{ID: "edit", Title: "Editing:"},
	)

	root.AddCommand(
		newRunCmd(a),
		newServeCmd(a),
		newListCmd(a),
		newResolveCmd(a),
		newLabelCmd(a),
		newHotkeysCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the command line with ctx as the parent of every
// command's context.
func ExecuteContext(ctx context.Context) error {
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("mddsklbl: %w", err)
	}
	return nil
}
