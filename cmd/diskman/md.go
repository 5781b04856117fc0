package main

import (
	"fmt"

	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var mdCmd = &cobra.Command{
	Use:     "md",
	Aliases: []string{"raid"},
	Short:   "Manage Linux MD RAID arrays",
	Long: `Manage Linux MD RAID arrays.

Arrays are named by their name, their uuid or the device of a running array.`,
}

//nolint:gochecknoglobals
var mdStartCmd = &cobra.Command{
	Use:   "start <array>",
	Short: "Assemble and start an array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonStartArray), target(args[0], model.KindLinuxMdDrive))
	},
}

//nolint:gochecknoglobals
var mdStopCmd = &cobra.Command{
	Use:   "stop <array>",
	Short: "Stop a running array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonStopArray), target(args[0], model.KindLinuxMdDrive))
	},
}

//nolint:gochecknoglobals
var mdCheckCmd = &cobra.Command{
	Use:   "check <array>",
	Short: "Check and repair the redundancy of an array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options := settings.CheckOptions
		if cmd.Flags().Changed("options") {
			options, _ = cmd.Flags().GetStringSlice("options")
		}

		return perform(cmd, always(sections.ButtonCheckArray), func(pool *model.Pool) (model.Presentable, sections.Input, error) {
			p, err := resolveKind(pool, args[0], model.KindLinuxMdDrive)

			return p, sections.Input{CheckOptions: options}, err
		})
	},
}

//nolint:gochecknoglobals
var mdAttachCmd = &cobra.Command{
	Use:   "attach <array> <component>",
	Short: "Attach a known component that is not attached",
	Args:  cobra.ExactArgs(2), //nolint:mnd
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonAttachComponent), componentRequest(args[0], args[1]))
	},
}

//nolint:gochecknoglobals
var mdRemoveCmd = &cobra.Command{
	Use:   "remove <array> <component>",
	Short: "Remove a component from an array and wipe its metadata",
	Args:  cobra.ExactArgs(2), //nolint:mnd
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonRemoveComponent), componentRequest(args[0], args[1]))
	},
}

//nolint:gochecknoglobals
var mdAddNewCmd = &cobra.Command{
	Use:   "add-new <array> <drive>",
	Short: "Create a partition on a drive and add it to an array",
	Long: `Create a partition in the largest unallocated space of a drive and add it
to an array. The partition is deleted again if it cannot be added.

Without --size, the partition is as large as the smallest known component.`,
	Args: cobra.ExactArgs(2), //nolint:mnd
	RunE: runMdAddNew,
}

func init() { //nolint:gochecknoinits
	mdCheckCmd.Flags().StringSlice("options", nil, "check options, such as repair (default from settings)")
	mdAddNewCmd.Flags().String("size", "", "size of the new component, such as 2TB")

	mdCmd.AddCommand(mdStartCmd, mdStopCmd, mdCheckCmd, mdAttachCmd, mdRemoveCmd, mdAddNewCmd)
	rootCmd.AddCommand(mdCmd)
}

// componentRequest is a [request] for an array and one of its components.
func componentRequest(array string, component string) request {
	return func(pool *model.Pool) (model.Presentable, sections.Input, error) {
		p, err := resolveKind(pool, array, model.KindLinuxMdDrive)
		if err != nil {
			return nil, sections.Input{}, err
		}

		d := findDevice(pool, component)
		if d == nil {
			return nil, sections.Input{}, fmt.Errorf("(main) %w: %q", ErrUnknownTarget, component)
		}

		return p, sections.Input{Component: d.ObjectPath}, nil
	}
}

func runMdAddNew(cmd *cobra.Command, args []string) error {
	sizeArg, _ := cmd.Flags().GetString("size")

	size, err := parseSize(sizeArg)
	if err != nil {
		return err
	}

	return perform(cmd, always(sections.ButtonAddComponent), func(pool *model.Pool) (model.Presentable, sections.Input, error) {
		p, err := resolveKind(pool, args[0], model.KindLinuxMdDrive)
		if err != nil {
			return nil, sections.Input{}, err
		}

		drive, err := resolveKind(pool, args[1], model.KindDrive)
		if err != nil {
			return nil, sections.Input{}, err
		}

		return p, sections.Input{Drive: drive.ID(), Size: size}, nil
	})
}
