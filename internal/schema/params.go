package schema

import (
	"fmt"
	"strings"

	"github.com/desertwitch/diskman/internal/secret"
)

// Params are the operation-specific parameters of a request. Every [Kind]
// has exactly one parameter type.
type Params interface {
	Kind() Kind
}

// CreatePartitionParams are the parameters of create-partition.
type CreatePartitionParams struct {
	Offset  uint64
	Size    uint64
	Type    string
	Label   string
	Flags   []string
	FSType  string
	FSLabel string
	Erase   string

	// Secret is the optional passphrase used to encrypt the new partition.
	// The caller keeps ownership and wipes it once the operation is done.
	Secret *secret.Passphrase
}

// Kind implements [Params].
func (CreatePartitionParams) Kind() Kind { return KindCreatePartition }

// Encrypted reports if the partition is to be encrypted.
func (p CreatePartitionParams) Encrypted() bool {
	return p.Secret != nil
}

// String describes the parameters, never the passphrase.
func (p CreatePartitionParams) String() string {
	return fmt.Sprintf("offset=%d size=%d type=%q label=%q flags=[%s] fstype=%q fslabel=%q erase=%q encrypted=%t",
		p.Offset, p.Size, p.Type, p.Label, strings.Join(p.Flags, ","), p.FSType, p.FSLabel, p.Erase, p.Encrypted())
}

// DeletePartitionParams are the parameters of delete-partition.
type DeletePartitionParams struct {
	Erase string
}

// Kind implements [Params].
func (DeletePartitionParams) Kind() Kind { return KindDeletePartition }

func (p DeletePartitionParams) String() string {
	return fmt.Sprintf("erase=%q", p.Erase)
}

// PartitionTableCreateParams are the parameters of partition-table-create.
type PartitionTableCreateParams struct {
	Scheme string
	Erase  string
}

// Kind implements [Params].
func (PartitionTableCreateParams) Kind() Kind { return KindPartitionTableCreate }

func (p PartitionTableCreateParams) String() string {
	return fmt.Sprintf("scheme=%q erase=%q", p.Scheme, p.Erase)
}

// DriveEjectParams are the parameters of drive-eject.
type DriveEjectParams struct{}

// Kind implements [Params].
func (DriveEjectParams) Kind() Kind { return KindDriveEject }

func (DriveEjectParams) String() string { return "" }

// DriveDetachParams are the parameters of drive-detach.
type DriveDetachParams struct{}

// Kind implements [Params].
func (DriveDetachParams) Kind() Kind { return KindDriveDetach }

func (DriveDetachParams) String() string { return "" }

// LinuxMdStopParams are the parameters of linux-md-stop.
type LinuxMdStopParams struct{}

// Kind implements [Params].
func (LinuxMdStopParams) Kind() Kind { return KindLinuxMdStop }

func (LinuxMdStopParams) String() string { return "" }

// LinuxMdStartParams are the parameters of linux-md-start.
type LinuxMdStartParams struct {
	Components []EntityRef
	Degraded   bool
}

// Kind implements [Params].
func (LinuxMdStartParams) Kind() Kind { return KindLinuxMdStart }

func (p LinuxMdStartParams) String() string {
	refs := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		refs = append(refs, c.String())
	}

	return fmt.Sprintf("components=[%s] degraded=%t", strings.Join(refs, ","), p.Degraded)
}

// LinuxMdAddComponentParams are the parameters of linux-md-add-component.
type LinuxMdAddComponentParams struct {
	Component EntityRef
}

// Kind implements [Params].
func (LinuxMdAddComponentParams) Kind() Kind { return KindLinuxMdAddComponent }

func (p LinuxMdAddComponentParams) String() string {
	return fmt.Sprintf("component=%s", p.Component)
}

// LinuxMdRemoveComponentParams are the parameters of
// linux-md-remove-component.
type LinuxMdRemoveComponentParams struct {
	Component EntityRef
}

// Kind implements [Params].
func (LinuxMdRemoveComponentParams) Kind() Kind { return KindLinuxMdRemoveComponent }

func (p LinuxMdRemoveComponentParams) String() string {
	return fmt.Sprintf("component=%s", p.Component)
}

// LinuxMdCheckParams are the parameters of linux-md-check.
type LinuxMdCheckParams struct {
	Options []string
}

// Kind implements [Params].
func (LinuxMdCheckParams) Kind() Kind { return KindLinuxMdCheck }

func (p LinuxMdCheckParams) String() string {
	return fmt.Sprintf("options=[%s]", strings.Join(p.Options, ","))
}
