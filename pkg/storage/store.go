// Copyright © 2026 Csum Authors

// Package storage abstracts the filesystem effects performed by the
// lifecycle engine.
//
// Typically the backend is a local file system, but anything
// file system-like works. Implementations of this interface are
// assumed to be fairly simple.
package storage

import (
	"context"
	"io"
)

// Attributes describe a stored object.
type Attributes struct {
	Size int64
}

// Store implementations know how to perform the primitive file
// operations the lifecycle engine sequences: read, write, rename,
// delete and directory creation.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	GetAttr(context.Context, string) (Attributes, error)
	Put(context.Context, string, io.Reader) error
	Create(context.Context, string) (io.WriteCloser, error)
	Delete(context.Context, string) error
	Move(ctx context.Context, src, dst string) error
	MkdirAll(context.Context, string) error
}

const pipeBufferSize = 1024 * 1024

// PipeIO copies reader to writer through a bounded buffer.
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	buf := make([]byte, pipeBufferSize)
	return io.CopyBuffer(writer, reader, buf)
}
