// Copyright © 2026 Csum Authors

// Package engine implements the content-addressed file lifecycle: the
// transitions taking a file between its original form, its labeled
// form (digest-named file plus sidecar record), and its bundled form
// (single container file holding both).
//
// Each operation handles one input path and returns a typed outcome.
// Policy — whether a failed path aborts the batch — belongs to the
// caller.
package engine

import (
	"context"
	"io"

	"github.com/csum-io/csum/pkg/fingerprint"
	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/record"
	"github.com/csum-io/csum/pkg/storage"
	"github.com/csum-io/csum/pkg/storage/localfs"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// Engine sequences the lifecycle transitions over a storage backend.
type Engine struct {
	store      storage.Store
	maker      *fingerprint.Maker
	l          *zap.Logger
	runID      string
	quarantine bool
}

// Option to configure the lifecycle engine
type Option func(*Engine)

// Backend specifies the backend store
func Backend(store storage.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// Hasher specifies the digest maker
func Hasher(m *fingerprint.Maker) Option {
	return func(e *Engine) {
		e.maker = m
	}
}

// Logger specifies the logger for the engine
func Logger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.l = l
		}
	}
}

// Quarantine makes Verify relocate mismatching content and its
// sidecar or container into a digest-named quarantine directory.
func Quarantine(enabled bool) Option {
	return func(e *Engine) {
		e.quarantine = enabled
	}
}

// New builds a lifecycle engine. Defaults: local file system backend,
// md5 digests, no logging, no quarantine.
func New(opts ...Option) *Engine {
	e := &Engine{
		store: localfs.New(nil),
		maker: fingerprint.New(),
		l:     zap.NewNop(),
		runID: ksuid.New().String(),
	}
	for _, apply := range opts {
		apply(e)
	}
	e.l = e.l.With(zap.String("run_id", e.runID))
	return e
}

// Hash derives the FileRecord for path without any side effect on the
// file system: digest plus the labeled and record sibling paths.
func (e *Engine) Hash(ctx context.Context, path string) (model.FileRecord, error) {
	return e.derive(ctx, path)
}

// derive computes the digest of the content at path and builds the
// record in one step.
func (e *Engine) derive(ctx context.Context, path string) (model.FileRecord, error) {
	digest, err := e.maker.ProcessKey(ctx, e.store, path)
	if err != nil {
		return model.FileRecord{}, err
	}
	return model.NewFileRecord(path, digest)
}

// readSidecar decodes the record held by a sidecar file.
func (e *Engine) readSidecar(ctx context.Context, path string) (model.FileRecord, []byte, error) {
	r, err := e.store.Get(ctx, path)
	if err != nil {
		return model.FileRecord{}, nil, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		_ = r.Close()
		return model.FileRecord{}, nil, status.ErrRecordDecode.Wrap(err)
	}
	if err = r.Close(); err != nil {
		return model.FileRecord{}, nil, status.ErrRecordDecode.Wrap(err)
	}
	rec, err := record.Unmarshal(b)
	if err != nil {
		return model.FileRecord{}, nil, err
	}
	return rec, b, nil
}
