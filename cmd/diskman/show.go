package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

//nolint:gochecknoglobals
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List drives, arrays, partitions and unallocated space",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withPool(cmd, func(pool *model.Pool) error {
			printTree(cmd.OutOrStdout(), pool)

			return nil
		})
	},
}

//nolint:gochecknoglobals
var showCmd = &cobra.Command{
	Use:   "show <target>",
	Short: "Show the details of a drive, array, partition or unallocated space",
	Long: `Show the details of a drive, array, partition or unallocated space, and the
operations that are available for it.

Targets are named by device, such as sda or /dev/md0, by array name or uuid,
or by the id printed by "diskman list".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPool(cmd, func(pool *model.Pool) error {
			p, err := resolve(pool, args[0])
			if err != nil {
				return err
			}

			sec := sections.For(pool, p, nil)
			if sec == nil {
				return fmt.Errorf("(main) %w: %q", ErrWrongTarget, args[0])
			}

			printSection(cmd.OutOrStdout(), p, sec)

			return nil
		})
	},
}

func init() { //nolint:gochecknoinits
	rootCmd.AddCommand(listCmd, showCmd)
}

// withPool loads the device graph once, without a loop or dispatcher.
func withPool(cmd *cobra.Command, fn func(pool *model.Pool) error) error {
	app, err := NewApp(settings)
	if err != nil {
		return err
	}
	defer app.Close()

	pool, err := app.client.Pool(cmd.Context())
	if err != nil {
		return fmt.Errorf("(main) failed to load the devices: %w", err)
	}

	return fn(pool)
}

// printTree prints the presentables of a device graph as a tree.
func printTree(w io.Writer, pool *model.Pool) {
	tops := pool.Toplevels()
	if len(tops) == 0 {
		fmt.Fprintln(w, "No devices found.")

		return
	}

	for _, p := range tops {
		fmt.Fprintln(w, subtree(pool, p))
	}
}

func subtree(pool *model.Pool, p model.Presentable) *tree.Tree {
	t := tree.Root(treeLabel(p))

	for _, child := range pool.Enclosed(p) {
		if len(pool.Enclosed(child)) > 0 {
			t.Child(subtree(pool, child))
		} else {
			t.Child(treeLabel(child))
		}
	}

	return t
}

func treeLabel(p model.Presentable) string {
	label := fmt.Sprintf("%s  %s", p.Name(), humanize.Bytes(p.Size()))

	if d := p.Device(); d != nil && d.DeviceFile != "" {
		label += "  " + d.DeviceFile
	}

	if p.Kind() == model.KindVolumeHole {
		label += fmt.Sprintf("  (offset %d)", p.Offset())
	}

	return label
}

// printSection prints what a section shows, details first.
func printSection(w io.Writer, p model.Presentable, sec sections.Section) {
	fmt.Fprintln(w, headingStyle.Render(sec.Title()+": "+p.Name()))
	fmt.Fprintf(w, "%-20s %s\n", "ID:", p.ID())

	if warning := sec.Warning(); warning != "" {
		fmt.Fprintln(w, warnStyle.Render(warning))
	}

	for _, d := range sec.Details() {
		value := d.Value
		if d.Progress >= 0 {
			value += fmt.Sprintf(" (%.1f%%)", d.Progress*100) //nolint:mnd
		}
		if d.Highlight {
			value = warnStyle.Render(value)
		}

		fmt.Fprintf(w, "%-20s %s\n", d.Label+":", value)
	}

	buttons := sec.Buttons()
	if len(buttons) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("Operations:"))

	for _, b := range buttons {
		fmt.Fprintf(w, "  %-18s %s\n", buttonCommands[b.ID], b.Description)
	}
}

// buttonCommands are the commands performing the buttons of the sections.
//
//nolint:gochecknoglobals
var buttonCommands = map[sections.ButtonID]string{
	sections.ButtonFormatDrive:     "format",
	sections.ButtonEject:           "eject",
	sections.ButtonDetach:          "detach",
	sections.ButtonStartArray:      "md start",
	sections.ButtonStopArray:       "md stop",
	sections.ButtonCheckArray:      "md check",
	sections.ButtonFormatArray:     "format",
	sections.ButtonAttachComponent: "md attach",
	sections.ButtonRemoveComponent: "md remove",
	sections.ButtonAddComponent:    "md add-new",
	sections.ButtonCreatePartition: "partition create",
	sections.ButtonDeletePartition: "partition delete",
}
