// Copyright © 2026 Csum Authors

package engine

import (
	"bytes"
	"context"

	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/record"
	"go.uber.org/zap"
)

// LabelResult reports a Label transition.
type LabelResult struct {
	Record  model.FileRecord
	Skipped bool
}

// Label renames a file to its content digest and writes the sidecar
// record next to it. Inputs already carrying the sidecar or container
// suffix are left alone.
//
// The sidecar is written before the rename: a failure in between
// leaves the original file in place, with a stray sidecar at worst.
func (e *Engine) Label(ctx context.Context, path string) (LabelResult, error) {
	if model.IsRecordPath(path) || model.IsContainerPath(path) {
		e.l.Debug("label skipped: input already in managed form", zap.String("path", path))
		return LabelResult{Skipped: true}, nil
	}

	rec, err := e.derive(ctx, path)
	if err != nil {
		return LabelResult{}, err
	}

	b, err := record.Marshal(rec)
	if err != nil {
		return LabelResult{}, err
	}
	if err = e.store.Put(ctx, rec.RecordPath, bytes.NewReader(b)); err != nil {
		return LabelResult{}, err
	}
	if err = e.store.Move(ctx, rec.OriginalPath, rec.LabeledPath); err != nil {
		return LabelResult{}, err
	}

	e.l.Debug("labeled",
		zap.String("original", rec.OriginalPath),
		zap.String("labeled", rec.LabeledPath),
		zap.String("digest", rec.Digest),
	)
	return LabelResult{Record: rec}, nil
}
