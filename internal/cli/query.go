package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/ipc"
)

const defaultQueryTimeout = 5 * time.Second

// copyToClipboard is replaced in tests; CI machines have no clipboard.
var copyToClipboard = clipboard.WriteAll

func queryContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

func newListCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		copyOut bool
		local   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List labelled desktops",
		Long: `List every labelled desktop by GUID.

The running host is queried by default; --local reads the label document
directly instead.`,
		Args:    cobra.NoArgs,
		GroupID: "query",
		RunE: func(cmd *cobra.Command, args []string) error {
			labels, err := listLabels(cmd, a, local)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(out, labels)
			}
			if len(labels) == 0 {
				printInfo(out, "No labelled desktops")
				return nil
			}

			t := labelTable(labels)
			t.write(out)
			if copyOut {
				if err := copyToClipboard(t.String()); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				printSuccess(cmd.ErrOrStderr(), "Copied to clipboard")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Also copy the table to the clipboard")
	cmd.Flags().BoolVar(&local, "local", false, "Read the label document instead of querying the host")
	return cmd
}

func listLabels(cmd *cobra.Command, a *app, local bool) (map[string]config.DesktopLabel, error) {
	if !local {
		ctx, cancel := queryContext(cmd)
		defer cancel()
		return ipc.NewClient(a.ep).List(ctx)
	}

	cfg, _, err := config.LoadOrDefault(a.paths)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]config.DesktopLabel, len(cfg.Desktops))
	for key, label := range cfg.Desktops {
		if guid, ok := desktop.GUIDFromKey(key); ok {
			labels[guid] = label
		}
	}
	return labels, nil
}

func labelTable(labels map[string]config.DesktopLabel) *table {
	guids := make([]string, 0, len(labels))
	for guid := range labels {
		guids = append(guids, guid)
	}
	sort.Strings(guids)

	t := &table{header: []string{"GUID", "TITLE", "DESCRIPTION"}}
	for _, guid := range guids {
		t.add(guid, labels[guid].Title, labels[guid].Description)
	}
	return t
}

func newResolveCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve <hwnd>",
		Short: "Show the desktop owning a window and its label",
		Long: `Ask the running host which virtual desktop owns a window.

The handle may be decimal or 0x-prefixed hexadecimal.`,
		Args:    cobra.ExactArgs(1),
		GroupID: "query",
		RunE: func(cmd *cobra.Command, args []string) error {
			hwnd, err := parseHWND(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := queryContext(cmd)
			defer cancel()
			id, label, err := ipc.NewClient(a.ep).ResolveWindow(ctx, hwnd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return outputJSON(out, map[string]any{
					"desktop_id": id,
					"label":      label,
				})
			}
			t := &table{header: []string{"DESKTOP", "TITLE", "DESCRIPTION"}}
			t.add(id, label.Title, label.Description)
			t.write(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func parseHWND(raw string) (uint64, error) {
	hwnd, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q", raw)
	}
	return hwnd, nil
}
