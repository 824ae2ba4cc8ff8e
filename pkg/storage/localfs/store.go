// Copyright © 2026 Csum Authors

// Package localfs implements storage.Store on a local file system,
// through afero so tests can run against an in-memory backend.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/csum-io/csum/pkg/model/status"
	"github.com/csum-io/csum/pkg/storage"
	"github.com/spf13/afero"
)

// New creates a local file system backed store. A nil fs defaults to
// the host file system.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &localFS{
		fs: fs,
	}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotExists
	}
	return l.fs.Open(key)
}

func (l *localFS) GetAttr(ctx context.Context, key string) (storage.Attributes, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.Attributes{}, status.ErrNotExists
		}
		return storage.Attributes{}, err
	}
	return storage.Attributes{Size: fi.Size()}, nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader) error {
	target, err := l.Create(ctx, key)
	if err != nil {
		return err
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		_ = target.Close()
		return status.ErrFilesystemOp.Wrap(err)
	}
	if err = target.Close(); err != nil {
		return status.ErrFilesystemOp.Wrap(err)
	}
	return nil
}

func (l *localFS) Create(ctx context.Context, key string) (io.WriteCloser, error) {
	if dir := filepath.Dir(key); dir != "" {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return nil, status.ErrFilesystemOp.Wrap(err)
		}
	}
	target, err := l.fs.OpenFile(key, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, status.ErrFilesystemOp.Wrap(err)
	}
	return target, nil
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return status.ErrFilesystemOp.Wrap(err)
	}
	return nil
}

func (l *localFS) Move(ctx context.Context, src, dst string) error {
	if err := l.fs.Rename(src, dst); err != nil {
		return status.ErrFilesystemOp.Wrap(err)
	}
	return nil
}

func (l *localFS) MkdirAll(ctx context.Context, dir string) error {
	if err := l.fs.MkdirAll(dir, 0700); err != nil {
		return status.ErrFilesystemOp.Wrap(err)
	}
	return nil
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}
