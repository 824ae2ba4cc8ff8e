// Package fingerprint computes the content digest that gives a file
// its identity. The digest algorithm is pluggable; every algorithm
// streams the content through a bounded buffer and yields a lowercase
// hex string.
package fingerprint

import (
	"context"
	"crypto/md5" // #nosec
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/storage"
	units "github.com/docker/go-units"
	blake2b "github.com/minio/blake2b-simd"
)

// Algorithm selects the digest function.
type Algorithm string

const (
	// MD5 is the default algorithm. It keeps digests identity-compatible
	// with the historical tool; collision resistance is not load-bearing
	// for integrity checking of one's own files.
	MD5 Algorithm = "md5"

	// Blake2b selects a 256-bit BLAKE2b digest.
	Blake2b Algorithm = "blake2b"
)

// Option configures a Maker.
type Option func(*Maker)

// Alg sets the digest algorithm.
func Alg(a Algorithm) Option {
	return func(m *Maker) {
		m.alg = a
	}
}

// BufferSize sets the read buffer size used when streaming content.
func BufferSize(sz int64) Option {
	return func(m *Maker) {
		if sz > 0 {
			m.bufferSize = sz
		}
	}
}

// New builds a digest Maker.
func New(opts ...Option) *Maker {
	m := &Maker{
		alg:        MD5,
		bufferSize: units.MiB,
	}
	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker computes content digests.
type Maker struct {
	alg        Algorithm
	bufferSize int64
}

// Algorithm reports the configured digest algorithm.
func (m *Maker) Algorithm() Algorithm {
	return m.alg
}

// Process streams r to exhaustion and returns the lowercase hex digest
// of its bytes. Read failures abort: these are local files, a retry
// has no value.
func (m *Maker) Process(r io.Reader) (string, error) {
	h, err := m.newHash()
	if err != nil {
		return "", err
	}
	buf := make([]byte, m.bufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", status.ErrHashIO.Wrap(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ProcessKey hashes the content of an object held by a store.
func (m *Maker) ProcessKey(ctx context.Context, store storage.Store, key string) (string, error) {
	r, err := store.Get(ctx, key)
	if err != nil {
		return "", status.ErrHashIO.Wrap(err)
	}
	digest, err := m.Process(r)
	if err != nil {
		_ = r.Close()
		return "", err
	}
	if err := r.Close(); err != nil {
		return "", status.ErrHashIO.Wrap(err)
	}
	return digest, nil
}

func (m *Maker) newHash() (hash.Hash, error) {
	switch m.alg {
	case MD5, "":
		return md5.New(), nil // #nosec
	case Blake2b:
		return blake2b.New256(), nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm: %q", m.alg)
	}
}
