// Package schema provides the shared vocabulary for all other packages. It
// defines entity references, the kinds of operations that can be sent to the
// disk-management daemon, their parameters and results, as well as the error
// taxonomy used throughout the codebase.
package schema

// EntityRef is an opaque reference to a device or presentable of the
// disk-management daemon. For devices it is the daemon's object path.
type EntityRef string

// String returns the reference as a string.
func (r EntityRef) String() string {
	return string(r)
}

// IsZero reports if the reference is empty.
func (r EntityRef) IsZero() bool {
	return r == ""
}
