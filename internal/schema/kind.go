package schema

import "fmt"

// Kind is the kind of an operation that is executed by the daemon.
type Kind int

const (
	KindUnknown Kind = iota
	KindCreatePartition
	KindDeletePartition
	KindPartitionTableCreate
	KindDriveEject
	KindDriveDetach
	KindLinuxMdStop
	KindLinuxMdStart
	KindLinuxMdAddComponent
	KindLinuxMdRemoveComponent
	KindLinuxMdCheck
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	KindCreatePartition:        "create-partition",
	KindDeletePartition:        "delete-partition",
	KindPartitionTableCreate:   "partition-table-create",
	KindDriveEject:             "drive-eject",
	KindDriveDetach:            "drive-detach",
	KindLinuxMdStop:            "linux-md-stop",
	KindLinuxMdStart:           "linux-md-start",
	KindLinuxMdAddComponent:    "linux-md-add-component",
	KindLinuxMdRemoveComponent: "linux-md-remove-component",
	KindLinuxMdCheck:           "linux-md-check",
}

// String returns the hyphenated name of the [Kind].
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// ParseKind returns the [Kind] for a hyphenated name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return KindUnknown, fmt.Errorf("(schema-kind) %w: %q", ErrUnknownKind, name)
}

// Kinds returns all known kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindCreatePartition; k <= KindLinuxMdCheck; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}
