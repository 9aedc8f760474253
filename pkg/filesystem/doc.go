// Package filesystem provides filesystem implementations for uplift.
//
// This package contains implementations of the types.FS interface,
// including the standard OS filesystem and an afero-backed one used
// by tests.
package filesystem
