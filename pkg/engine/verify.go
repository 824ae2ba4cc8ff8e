// Copyright © 2026 Csum Authors

package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/csum-io/csum/pkg/container"
	"github.com/csum-io/csum/pkg/model"
	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/record"
	"go.uber.org/zap"
)

// VerifyResult reports an integrity check. A mismatch is a result,
// not an error: Verify keeps going over the remaining inputs.
type VerifyResult struct {
	Record       model.FileRecord
	ActualDigest string
	Match        bool

	// QuarantineDir is the directory the mismatching files were
	// relocated into, when quarantine is enabled.
	QuarantineDir string
}

// Verify recomputes the digest of the content referenced by a sidecar
// record or held in a container, and compares it against the recorded
// digest. The verified files are left in place unless quarantine is
// enabled and the digests disagree.
func (e *Engine) Verify(ctx context.Context, path string) (VerifyResult, error) {
	switch {
	case model.IsRecordPath(path):
		return e.verifySidecar(ctx, path)
	case model.IsContainerPath(path):
		return e.verifyContainer(ctx, path)
	default:
		return VerifyResult{}, status.ErrUnrecognizedExtension.Wrap(fmt.Errorf("cannot verify %q", path))
	}
}

func (e *Engine) verifySidecar(ctx context.Context, path string) (VerifyResult, error) {
	rec, _, err := e.readSidecar(ctx, path)
	if err != nil {
		return VerifyResult{}, err
	}

	digest, err := e.maker.ProcessKey(ctx, e.store, rec.LabeledPath)
	if err != nil {
		return VerifyResult{}, err
	}

	res := VerifyResult{Record: rec, ActualDigest: digest, Match: digest == rec.Digest}
	if res.Match {
		return res, nil
	}

	e.l.Info("digest mismatch",
		zap.String("sidecar", path),
		zap.String("recorded", rec.Digest),
		zap.String("computed", digest),
	)
	if e.quarantine {
		qdir, err := e.quarantinePaths(ctx, path, rec.Digest, rec.LabeledPath, path)
		if err != nil {
			return VerifyResult{}, err
		}
		res.QuarantineDir = qdir
	}
	return res, nil
}

// verifyContainer hashes the payload entry as it streams by: no
// temporary file is involved.
func (e *Engine) verifyContainer(ctx context.Context, path string) (VerifyResult, error) {
	rc, err := e.store.Get(ctx, path)
	if err != nil {
		return VerifyResult{}, err
	}

	cr, err := container.NewReader(rc)
	if err != nil {
		_ = rc.Close()
		return VerifyResult{}, err
	}

	var (
		rec                     model.FileRecord
		digest                  string
		haveRecord, havePayload bool
	)
	for {
		err = cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = rc.Close()
			return VerifyResult{}, err
		}

		if model.IsRecordPath(cr.Name()) {
			if rec, err = record.Decode(cr); err != nil {
				_ = rc.Close()
				return VerifyResult{}, err
			}
			haveRecord = true
		} else {
			if digest, err = e.maker.Process(cr); err != nil {
				_ = rc.Close()
				return VerifyResult{}, err
			}
			havePayload = true
		}
	}
	if err = rc.Close(); err != nil {
		return VerifyResult{}, status.ErrContainerCorrupt.Wrap(err)
	}
	if !haveRecord {
		return VerifyResult{}, status.ErrContainerCorrupt.Wrap(fmt.Errorf("container %q has no record entry", path))
	}
	if !havePayload {
		return VerifyResult{}, status.ErrContainerCorrupt.Wrap(fmt.Errorf("container %q has no payload entry", path))
	}

	res := VerifyResult{Record: rec, ActualDigest: digest, Match: digest == rec.Digest}
	if res.Match {
		return res, nil
	}

	e.l.Info("digest mismatch",
		zap.String("container", path),
		zap.String("recorded", rec.Digest),
		zap.String("computed", digest),
	)
	if e.quarantine {
		qdir, err := e.quarantinePaths(ctx, path, rec.Digest, path)
		if err != nil {
			return VerifyResult{}, err
		}
		res.QuarantineDir = qdir
	}
	return res, nil
}

// quarantinePaths relocates the given files into the digest-named
// quarantine directory next to the input, under their base names.
func (e *Engine) quarantinePaths(ctx context.Context, input, digest string, paths ...string) (string, error) {
	qdir := model.QuarantineDir(input, digest)
	if err := e.store.MkdirAll(ctx, qdir); err != nil {
		return "", err
	}
	for _, pth := range paths {
		if err := e.store.Move(ctx, pth, filepath.Join(qdir, filepath.Base(pth))); err != nil {
			return "", err
		}
	}
	e.l.Info("quarantined", zap.String("dir", qdir), zap.Strings("files", paths))
	return qdir, nil
}
