package main

import (
	"github.com/desertwitch/diskman/internal/model"
	"github.com/desertwitch/diskman/internal/sections"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals
var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Create and delete partitions",
}

//nolint:gochecknoglobals
var partitionCreateCmd = &cobra.Command{
	Use:   "create <drive|array|hole>",
	Short: "Create a partition, optionally encrypted, with a new filesystem",
	Long: `Create a partition in the unallocated space of a drive or RAID array.

The largest unallocated space is used unless --offset names another one. A
size of zero uses all of it. On MBR drives, --type extended creates an
extended partition instead of a filesystem. With --encrypt the new passphrase
is asked for on the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: runPartitionCreate,
}

//nolint:gochecknoglobals
var partitionDeleteCmd = &cobra.Command{
	Use:   "delete <partition>",
	Short: "Delete a partition and all data on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform(cmd, always(sections.ButtonDeletePartition), target(args[0], model.KindVolume))
	},
}

func init() { //nolint:gochecknoinits
	flags := partitionCreateCmd.Flags()
	flags.String("size", "", "size of the partition, such as 500MB or 2GiB (default all)")
	flags.String("type", "ext4", "filesystem type (ext4, ext3, xfs, vfat, ntfs, swap, extended)")
	flags.String("label", "", "filesystem label")
	flags.Bool("encrypt", false, "encrypt the partition")
	flags.Bool("erase", false, "overwrite existing data with zeroes")
	flags.Uint64("offset", 0, "offset in bytes of the unallocated space to use")

	partitionCmd.AddCommand(partitionCreateCmd, partitionDeleteCmd)
	rootCmd.AddCommand(partitionCmd)
}

func runPartitionCreate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	sizeArg, _ := flags.GetString("size")
	fsType, _ := flags.GetString("type")
	label, _ := flags.GetString("label")
	encrypt, _ := flags.GetBool("encrypt")
	erase, _ := flags.GetBool("erase")
	offset, _ := flags.GetUint64("offset")

	size, err := parseSize(sizeArg)
	if err != nil {
		return err
	}

	if fsType == "extended" {
		fsType = model.FSTypeExtended
	}

	in := sections.Input{
		Size:    size,
		FSType:  fsType,
		FSLabel: label,
		Encrypt: encrypt,
		Erase:   eraseMode(erase),
	}

	return perform(cmd, always(sections.ButtonCreatePartition), func(pool *model.Pool) (model.Presentable, sections.Input, error) {
		p, err := resolveKind(pool, args[0], model.KindDrive, model.KindLinuxMdDrive, model.KindVolumeHole)
		if err != nil {
			return nil, in, err
		}

		if p.Kind() == model.KindVolumeHole {
			return p, in, nil
		}

		hole, err := holeFor(pool, p, offset, flags.Changed("offset"))

		return hole, in, err
	})
}
