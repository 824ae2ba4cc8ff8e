// Package record serializes FileRecords to the sidecar encoding, a
// human-diffable YAML document.
package record

import (
	"io"

	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/model/status"
	yaml "gopkg.in/yaml.v2"
)

// Marshal encodes a FileRecord to its sidecar representation.
func Marshal(rec model.FileRecord) ([]byte, error) {
	return yaml.Marshal(rec)
}

// Unmarshal decodes a sidecar representation back into a FileRecord.
// It fails with status.ErrRecordDecode on malformed input and on
// records missing the digest or the original path.
func Unmarshal(b []byte) (model.FileRecord, error) {
	var rec model.FileRecord
	if err := yaml.Unmarshal(b, &rec); err != nil {
		return model.FileRecord{}, status.ErrRecordDecode.Wrap(err)
	}
	if rec.Digest == "" || rec.OriginalPath == "" {
		return model.FileRecord{}, status.ErrRecordDecode
	}
	return rec, nil
}

// Decode reads a sidecar representation from r and decodes it. Record
// payloads are small: reading them whole is fine.
func Decode(r io.Reader) (model.FileRecord, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return model.FileRecord{}, status.ErrRecordDecode.Wrap(err)
	}
	return Unmarshal(b)
}
