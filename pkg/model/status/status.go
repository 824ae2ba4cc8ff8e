// Package status exports the error constants shared by the csum
// packages.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/model and the
// packages consuming it.
package status

import "github.com/csum-io/csum/pkg/errors"

var (
	// ErrHashIO indicates that the source content could not be opened or read while computing its digest
	ErrHashIO = errors.New("cannot read content for hashing")

	// ErrMissingExtension indicates that a file name carries no extension, so no labeled name can be derived
	ErrMissingExtension = errors.New("file name has no extension")

	// ErrMissingParent indicates that a path has no parent directory to hold the derived siblings
	ErrMissingParent = errors.New("path has no parent directory")

	// ErrRecordDecode indicates that a sidecar record or container record entry is malformed
	ErrRecordDecode = errors.New("record is malformed")

	// ErrContainerCorrupt indicates a truncated container stream, a missing trailer or an invalid entry header
	ErrContainerCorrupt = errors.New("container stream is corrupt")

	// ErrIntegrityMismatch indicates that a recomputed digest disagrees with the recorded digest
	ErrIntegrityMismatch = errors.New("recomputed digest does not match the recorded digest")

	// ErrFilesystemOp indicates a failed rename, create, delete or mkdir
	ErrFilesystemOp = errors.New("filesystem operation failed")

	// ErrNotExists indicates that the fetched object does not exist on storage
	ErrNotExists = errors.New("object doesn't exist")

	// ErrUnrecognizedExtension indicates an input whose suffix selects no known source form
	ErrUnrecognizedExtension = errors.New("unrecognized file extension")
)
