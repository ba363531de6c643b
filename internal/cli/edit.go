package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/hotkeys"
)

// editConfig loads the document, applies fn and saves it atomically. The
// file is left untouched when fn fails.
func editConfig(paths config.Paths, fn func(cfg *config.Config) error) error {
	cfg, _, err := config.LoadOrDefault(paths)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return config.SaveAtomic(cfg, paths)
}

func newLabelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "label",
		Short:   "Edit desktop labels",
		GroupID: "edit",
	}

	var title, description string
	setCmd := &cobra.Command{
		Use:   "set <guid>",
		Short: "Set the title and/or description of a desktop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := desktop.NormalizeID(args[0])
			if err != nil {
				return err
			}
			titleSet := cmd.Flags().Changed("title")
			descSet := cmd.Flags().Changed("description")
			if !titleSet && !descSet {
				return fmt.Errorf("nothing to set: pass --title and/or --description")
			}

			key := desktop.FormatKey(id)
			var label config.DesktopLabel
			err = editConfig(a.paths, func(cfg *config.Config) error {
				label = cfg.Label(key)
				if titleSet {
					label.Title = title
				}
				if descSet {
					label.Description = description
				}
				cfg.SetLabel(key, label)
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Labelled %s as %q", id, label.Title))
			return nil
		},
	}
	setCmd.Flags().StringVar(&title, "title", "", "Desktop title")
	setCmd.Flags().StringVar(&description, "description", "", "Desktop description")

	rmCmd := &cobra.Command{
		Use:   "rm <guid>",
		Short: "Remove the label of a desktop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := desktop.NormalizeID(args[0])
			if err != nil {
				return err
			}
			err = editConfig(a.paths, func(cfg *config.Config) error {
				if !cfg.RemoveLabel(desktop.FormatKey(id)) {
					return fmt.Errorf("no label stored for %s", id)
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Removed label for %s", id))
			return nil
		},
	}

	cmd.AddCommand(setCmd, rmCmd)
	return cmd
}

func newHotkeysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hotkeys",
		Short:   "Show or change hotkey bindings",
		GroupID: "edit",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the configured hotkeys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadOrDefault(a.paths)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			t := &table{header: []string{"SLOT", "CHORD"}}
			for _, nc := range hotkeys.Slots(cfg.Hotkeys) {
				t.add(nc.Slot, hotkeys.FormatChord(nc.Chord))
			}
			t.write(out)

			for _, c := range hotkeys.Conflicts(cfg.Hotkeys) {
				printWarning(out, fmt.Sprintf("%s and %s both use %s", c.First, c.Second, hotkeys.FormatChord(c.Chord)))
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <slot> <chord>",
		Short: "Bind a slot to a chord such as Ctrl+Alt+T",
		Long: `Bind a hotkey slot to a new chord.

Slots: edit_title, edit_description, toggle_overlay, snap_position.
A chord that collides with another slot is rejected and nothing is saved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chord, err := hotkeys.ParseChord(args[1])
			if err != nil {
				return err
			}
			err = editConfig(a.paths, func(cfg *config.Config) error {
				slot, err := hotkeys.Slot(&cfg.Hotkeys, args[0])
				if err != nil {
					return err
				}
				*slot = chord
				return hotkeys.Validate(cfg.Hotkeys)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), fmt.Sprintf("Bound %s to %s", args[0], hotkeys.FormatChord(chord)))
			return nil
		},
	}

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Inspect or migrate the label document",
		GroupID: "edit",
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the document, log and channel locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			t := &table{header: []string{"WHAT", "WHERE"}}
			t.add("config", a.paths.CfgFile)
			t.add("logs", a.paths.LogDir)
			t.add("endpoint", a.ep.String())
			t.write(out)
			return nil
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade a legacy document to the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, migrated, err := config.LoadOrDefault(a.paths)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !migrated {
				printInfo(out, "Config already current")
				return nil
			}
			if err := config.SaveAtomic(cfg, a.paths); err != nil {
				return err
			}
			printSuccess(out, fmt.Sprintf("Migrated %s to version %d", a.paths.CfgFile, config.CurrentVersion))
			return nil
		},
	}

	cmd.AddCommand(pathCmd, migrateCmd)
	return cmd
}
