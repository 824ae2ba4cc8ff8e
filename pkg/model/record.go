package model

import (
	"path/filepath"
	"strings"

	"github.com/csum-io/csum/pkg/model/status"
)

const (
	// RecordSuffix is the extension of the sidecar record written next to a labeled file.
	RecordSuffix = ".record"

	// ContainerSuffix is the extension of the single-file container bundling a record and its payload.
	ContainerSuffix = ".pack"

	// TempSuffix is the extension of the temporary file a container payload is extracted to
	// before its digest has been validated.
	TempSuffix = ".tmp-extracted"
)

// FileRecord maps a content digest back to the file's original name.
// It is the sole persistent entity: serialized to the sidecar record
// and embedded as the record entry of a container.
type FileRecord struct {
	Digest       string `json:"digest" yaml:"digest"`
	OriginalPath string `json:"original_path" yaml:"original_path"`
	LabeledPath  string `json:"labeled_path" yaml:"labeled_path"`
	RecordPath   string `json:"record_path" yaml:"record_path"`
	_            struct{}
}

// NewFileRecord builds the record for originalPath given the digest of
// its content. The labeled and record paths are siblings of the
// original: parent/<digest><suffix> and parent/<digest>.record.
func NewFileRecord(originalPath, digest string) (FileRecord, error) {
	suffix, err := Suffix(originalPath)
	if err != nil {
		return FileRecord{}, err
	}
	parent, err := Parent(originalPath)
	if err != nil {
		return FileRecord{}, err
	}
	return FileRecord{
		Digest:       digest,
		OriginalPath: originalPath,
		LabeledPath:  filepath.Join(parent, digest+suffix),
		RecordPath:   filepath.Join(parent, digest+RecordSuffix),
	}, nil
}

// Suffix returns the extension of the path's file name, from the last
// '.' onward (".txt" for "report.txt", ".gz" for "archive.tar.gz").
func Suffix(path string) (string, error) {
	name := filepath.Base(path)
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", status.ErrMissingExtension
	}
	return name[i:], nil
}

// Parent returns the directory holding the path's file name.
func Parent(path string) (string, error) {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return "", status.ErrMissingParent
	}
	return filepath.Dir(path), nil
}

// IsRecordPath tells whether the path names a sidecar record.
func IsRecordPath(path string) bool {
	return strings.HasSuffix(path, RecordSuffix)
}

// IsContainerPath tells whether the path names a container.
func IsContainerPath(path string) bool {
	return strings.HasSuffix(path, ContainerSuffix)
}

// ContainerPathFor yields the container path associated with a sidecar
// record path, by suffix substitution.
func ContainerPathFor(recordPath string) string {
	return strings.TrimSuffix(recordPath, RecordSuffix) + ContainerSuffix
}

// TempPathFor yields the temporary extraction path associated with a
// container path, by suffix substitution.
func TempPathFor(containerPath string) string {
	return strings.TrimSuffix(containerPath, ContainerSuffix) + TempSuffix
}

// QuarantineDir yields the digest-named directory, sibling to the
// input, that quarantined content is relocated into.
func QuarantineDir(inputPath, digest string) string {
	return filepath.Join(filepath.Dir(inputPath), digest)
}
