package model

import (
	"fmt"
	"strconv"
)

// Partition schemes understood by the daemon.
const (
	SchemeMBR  = "mbr"
	SchemeGPT  = "gpt"
	SchemeAPM  = "apm"
	SchemeNone = "none"
)

// FSTypeExtended is the pseudo filesystem type used to request an extended
// partition on a MBR partition table.
const FSTypeExtended = "msdos_extended_partition"

// Well-known partition types.
const (
	MBRTypeExtended      = "0x05"
	MBRTypeLinux         = "0x83"
	MBRTypeLinuxSwap     = "0x82"
	MBRTypeFAT32LBA      = "0x0c"
	MBRTypeNTFS          = "0x07"
	MBRTypeLinuxRaid     = "0xfd"
	GPTTypeBasicData     = "EBD0A0A2-B9E5-4433-87C0-68B6B72699C7"
	GPTTypeLinuxData     = "0FC63DAF-8483-4772-8E79-3D69D8477DE4"
	GPTTypeLinuxSwap     = "0657FD6D-A4AB-43C4-84E5-0933C84B4F4F"
	GPTTypeLinuxRaid     = "A19D880F-05FC-4D3B-A006-743F0F84911E"
	APMTypeUnix          = "Apple_Unix_SVR2"
	APMTypeHFS           = "Apple_HFS"
	APMTypeFAT32         = "DOS_FAT_32"
	raidComponentLabel   = "RAID Component"
	raidComponentLabelAs = "RAID: %s"
)

var extendedMBRTypes = map[uint64]struct{}{
	0x05: {}, //nolint:mnd
	0x0f: {}, //nolint:mnd
	0x85: {}, //nolint:mnd
}

// IsExtendedPartitionType reports if a MBR partition type denotes an
// extended partition. Types are parsed with base prefixes, so "0x05" and "5"
// are equivalent.
func IsExtendedPartitionType(partType string) bool {
	v, err := strconv.ParseUint(partType, 0, 8)
	if err != nil {
		return false
	}

	_, ok := extendedMBRTypes[v]

	return ok
}

// SchemeSupportsLabels reports if partitions of a scheme can carry a label.
func SchemeSupportsLabels(scheme string) bool {
	return scheme == SchemeGPT || scheme == SchemeAPM
}

// ValidScheme reports if a scheme can be used for a new partition table.
func ValidScheme(scheme string) bool {
	switch scheme {
	case SchemeMBR, SchemeGPT, SchemeAPM, SchemeNone:
		return true
	default:
		return false
	}
}

// DefaultPartitionType returns the partition type to use for a new partition
// holding a filesystem of fsType on a partition table of the given scheme.
func DefaultPartitionType(scheme string, fsType string) (string, error) {
	switch scheme {
	case SchemeMBR:
		switch fsType {
		case FSTypeExtended:
			return MBRTypeExtended, nil
		case "vfat":
			return MBRTypeFAT32LBA, nil
		case "ntfs", "exfat":
			return MBRTypeNTFS, nil
		case "swap":
			return MBRTypeLinuxSwap, nil
		default:
			return MBRTypeLinux, nil
		}

	case SchemeGPT:
		switch fsType {
		case FSTypeExtended:
			return "", fmt.Errorf("%w: %s on %s", ErrNoDefaultType, fsType, scheme)
		case "vfat", "ntfs", "exfat":
			return GPTTypeBasicData, nil
		case "swap":
			return GPTTypeLinuxSwap, nil
		default:
			return GPTTypeLinuxData, nil
		}

	case SchemeAPM:
		switch fsType {
		case FSTypeExtended:
			return "", fmt.Errorf("%w: %s on %s", ErrNoDefaultType, fsType, scheme)
		case "vfat":
			return APMTypeFAT32, nil
		case "hfs", "hfsplus":
			return APMTypeHFS, nil
		default:
			return APMTypeUnix, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
}

// RaidComponentPartition returns the partition type and label to use for a
// new partition that becomes a component of the array named arrayName.
// Labels are only returned for schemes that support them.
func RaidComponentPartition(scheme string, arrayName string) (partType string, label string, err error) {
	switch scheme {
	case SchemeMBR:
		return MBRTypeLinuxRaid, "", nil
	case SchemeGPT:
		partType = GPTTypeLinuxRaid
	case SchemeAPM:
		partType = APMTypeUnix
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	label = raidComponentLabel
	if arrayName != "" {
		label = fmt.Sprintf(raidComponentLabelAs, arrayName)
	}

	return partType, label, nil
}
