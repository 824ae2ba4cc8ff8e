// Copyright © 2026 Csum Authors

package engine

import (
	"context"
	"path/filepath"

	"github.com/csum-io/csum/pkg/container"
	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/record"
	"go.uber.org/zap"
)

// BundleResult reports a Bundle transition.
type BundleResult struct {
	Record        model.FileRecord
	ContainerPath string
	Skipped       bool
}

// Bundle combines a record and its content into a single container
// file, consuming the inputs. A labeled pair (addressed by its
// sidecar) is bundled as-is; an original file is derived first. Inputs
// already carrying the container suffix are left alone.
func (e *Engine) Bundle(ctx context.Context, path string) (BundleResult, error) {
	switch {
	case model.IsContainerPath(path):
		e.l.Debug("bundle skipped: input already a container", zap.String("path", path))
		return BundleResult{Skipped: true}, nil
	case model.IsRecordPath(path):
		return e.bundleFromSidecar(ctx, path)
	default:
		return e.bundleFromOriginal(ctx, path)
	}
}

// bundleFromSidecar packs an existing sidecar (verbatim bytes) and its
// labeled file, then deletes both.
func (e *Engine) bundleFromSidecar(ctx context.Context, path string) (BundleResult, error) {
	rec, raw, err := e.readSidecar(ctx, path)
	if err != nil {
		return BundleResult{}, err
	}

	containerPath := model.ContainerPathFor(path)
	if err = e.writeContainer(ctx, containerPath, filepath.Base(rec.RecordPath), raw,
		rec.LabeledPath, filepath.Base(rec.LabeledPath)); err != nil {
		return BundleResult{}, err
	}

	if err = e.store.Delete(ctx, path); err != nil {
		return BundleResult{}, err
	}
	if err = e.store.Delete(ctx, rec.LabeledPath); err != nil {
		return BundleResult{}, err
	}

	e.l.Debug("bundled from sidecar",
		zap.String("sidecar", path),
		zap.String("container", containerPath),
	)
	return BundleResult{Record: rec, ContainerPath: containerPath}, nil
}

// bundleFromOriginal derives the record, then packs the encoded record
// and the original content, deleting the original. Unlike the sidecar
// form there is never a sidecar file on disk: the record entry is
// streamed straight from memory.
func (e *Engine) bundleFromOriginal(ctx context.Context, path string) (BundleResult, error) {
	rec, err := e.derive(ctx, path)
	if err != nil {
		return BundleResult{}, err
	}
	b, err := record.Marshal(rec)
	if err != nil {
		return BundleResult{}, err
	}

	containerPath := model.ContainerPathFor(rec.RecordPath)
	if err = e.writeContainer(ctx, containerPath, filepath.Base(rec.RecordPath), b,
		path, filepath.Base(rec.LabeledPath)); err != nil {
		return BundleResult{}, err
	}

	if err = e.store.Delete(ctx, path); err != nil {
		return BundleResult{}, err
	}

	e.l.Debug("bundled from original",
		zap.String("original", path),
		zap.String("container", containerPath),
	)
	return BundleResult{Record: rec, ContainerPath: containerPath}, nil
}

// writeContainer streams the two-entry container to containerPath:
// the record entry first, then the payload entry read from payloadKey.
// The payload entry is named after the labeled file so a container is
// relocatable across directories. A failed write does not leave a
// partial container behind.
func (e *Engine) writeContainer(ctx context.Context, containerPath, recordName string, recordBytes []byte, payloadKey, payloadName string) error {
	attr, err := e.store.GetAttr(ctx, payloadKey)
	if err != nil {
		return err
	}
	pr, err := e.store.Get(ctx, payloadKey)
	if err != nil {
		return err
	}
	defer pr.Close()

	w, err := e.store.Create(ctx, containerPath)
	if err != nil {
		return err
	}
	abort := func(err error) error {
		_ = w.Close()
		_ = e.store.Delete(ctx, containerPath)
		return err
	}

	cw, err := container.NewWriter(w)
	if err != nil {
		return abort(err)
	}
	if err = cw.WriteBytesEntry(recordName, recordBytes); err != nil {
		return abort(err)
	}
	if err = cw.WriteEntry(payloadName, attr.Size, pr); err != nil {
		return abort(err)
	}
	if err = cw.Close(); err != nil {
		return abort(err)
	}
	if err = w.Close(); err != nil {
		return abort(err)
	}
	return nil
}
