// Copyright © 2026 Csum Authors

package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/csum-io/csum/pkg/container"
	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/record"
	"go.uber.org/zap"
)

// RestoreResult reports a Restore transition.
type RestoreResult struct {
	Record model.FileRecord

	// From is the path the restored content was renamed from: the
	// labeled file for a sidecar input, the validated temporary
	// extraction for a container input.
	From string
}

// Restore returns a file to its original name. The input's suffix
// selects the source form: a sidecar record, or a container. Any
// other suffix is an error.
func (e *Engine) Restore(ctx context.Context, path string) (RestoreResult, error) {
	switch {
	case model.IsRecordPath(path):
		return e.restoreFromSidecar(ctx, path)
	case model.IsContainerPath(path):
		return e.restoreFromContainer(ctx, path)
	default:
		return RestoreResult{}, status.ErrUnrecognizedExtension.Wrap(fmt.Errorf("cannot restore from %q", path))
	}
}

// restoreFromSidecar trusts the recorded digest: rename the labeled
// file back, then drop the sidecar.
func (e *Engine) restoreFromSidecar(ctx context.Context, path string) (RestoreResult, error) {
	rec, _, err := e.readSidecar(ctx, path)
	if err != nil {
		return RestoreResult{}, err
	}

	if err = e.store.Move(ctx, rec.LabeledPath, rec.OriginalPath); err != nil {
		return RestoreResult{}, err
	}
	if err = e.store.Delete(ctx, path); err != nil {
		return RestoreResult{}, err
	}

	e.l.Debug("restored from sidecar",
		zap.String("sidecar", path),
		zap.String("original", rec.OriginalPath),
	)
	return RestoreResult{Record: rec, From: rec.LabeledPath}, nil
}

// restoreFromContainer streams the container once: the record entry is
// decoded in place, the payload entry is copied to a temporary file.
// Only after the recomputed digest of the temporary file agrees with
// the recorded one does the temporary file take the original name and
// the container get deleted.
func (e *Engine) restoreFromContainer(ctx context.Context, path string) (RestoreResult, error) {
	rc, err := e.store.Get(ctx, path)
	if err != nil {
		return RestoreResult{}, err
	}
	defer rc.Close()

	cr, err := container.NewReader(rc)
	if err != nil {
		return RestoreResult{}, err
	}

	tmp := model.TempPathFor(path)
	var (
		rec                     model.FileRecord
		haveRecord, havePayload bool
	)
	cleanup := func() {
		if havePayload {
			_ = e.store.Delete(ctx, tmp)
		}
	}

	for {
		err = cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			cleanup()
			return RestoreResult{}, err
		}

		if model.IsRecordPath(cr.Name()) {
			if rec, err = record.Decode(cr); err != nil {
				cleanup()
				return RestoreResult{}, err
			}
			haveRecord = true
		} else {
			havePayload = true
			if err = e.store.Put(ctx, tmp, cr); err != nil {
				cleanup()
				return RestoreResult{}, err
			}
		}
	}
	if !haveRecord {
		cleanup()
		return RestoreResult{}, status.ErrContainerCorrupt.Wrap(fmt.Errorf("container %q has no record entry", path))
	}
	if !havePayload {
		return RestoreResult{}, status.ErrContainerCorrupt.Wrap(fmt.Errorf("container %q has no payload entry", path))
	}

	digest, err := e.maker.ProcessKey(ctx, e.store, tmp)
	if err != nil {
		cleanup()
		return RestoreResult{}, err
	}
	if digest != rec.Digest {
		if err = e.store.Delete(ctx, tmp); err != nil {
			return RestoreResult{}, err
		}
		e.l.Info("container payload failed integrity check",
			zap.String("container", path),
			zap.String("recorded", rec.Digest),
			zap.String("computed", digest),
		)
		return RestoreResult{}, status.ErrIntegrityMismatch.Wrap(
			fmt.Errorf("container %q: recorded %s, computed %s", path, rec.Digest, digest))
	}

	if err = e.store.Move(ctx, tmp, rec.OriginalPath); err != nil {
		return RestoreResult{}, err
	}
	if err = e.store.Delete(ctx, path); err != nil {
		return RestoreResult{}, err
	}

	e.l.Debug("restored from container",
		zap.String("container", path),
		zap.String("original", rec.OriginalPath),
	)
	return RestoreResult{Record: rec, From: tmp}, nil
}
