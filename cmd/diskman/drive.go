package main

import (
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var ejectCmd = &cobra.Command{
	Use:   "eject <drive>",
	Short: "Eject the media of a drive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonEject), target(args[0], model.KindDrive))
	},
}

//nolint:gochecknoglobals
var detachCmd = &cobra.Command{
	Use:   "detach <drive>",
	Short: "Power down a drive so it can be removed safely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonDetach), target(args[0], model.KindDrive))
	},
}

//nolint:gochecknoglobals
var formatCmd = &cobra.Command{
	Use:   "format <drive|array>",
	Short: "Erase a drive or RAID array and create a new partition table",
	Long: `Erase a drive or a running RAID array and create a new partition table.

All data on the drive or array is lost. The scheme is one of gpt, mbr, apm,
or none to leave the drive unpartitioned.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() { //nolint:gochecknoinits
	formatCmd.Flags().String("scheme", model.SchemeGPT, "partitioning scheme (gpt, mbr, apm, none)")
	formatCmd.Flags().Bool("erase", false, "overwrite existing data with zeroes")

	rootCmd.AddCommand(ejectCmd, detachCmd, formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	scheme, _ := cmd.Flags().GetString("scheme")
	erase, _ := cmd.Flags().GetBool("erase")

	button := func(p model.Presentable) sections.ButtonID {
		if p.Kind() == model.KindLinuxMdDrive {
			return sections.ButtonFormatArray
		}

		return sections.ButtonFormatDrive
	}

	return perform(cmd, button, func(pool *model.Pool) (model.Presentable, sections.Input, error) {
		p, err := resolveKind(pool, args[0], model.KindDrive, model.KindLinuxMdDrive)

		return p, sections.Input{Scheme: scheme, Erase: eraseMode(erase)}, err
	})
}

// eraseMode returns the erase option of the daemon for the --erase flag.
func eraseMode(erase bool) string {
	if erase {
		return "zero"
	}

	return ""
}
