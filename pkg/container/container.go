// Copyright © 2026 Csum Authors

// Package container reads and writes the single-file container format
// bundling a record entry and a payload entry.
//
// A container is an ordered sequence of named entries terminated by an
// explicit trailer:
//
//	file    := magic entry* trailer
//	magic   := "CSPK" version(1 byte) reserved(3 bytes)
//	entry   := nameLen(uint16) reserved(uint16) size(uint64) name payload
//	trailer := entry header with nameLen == 0 and size == 0
//
// All integers are little-endian. The stream is not seekable for this
// purpose: reading is strictly sequential and single-pass.
package container

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/csum-io/csum/pkg/model/status"
)

const (
	formatVersion = 1

	magicSize       = 8
	entryHeaderSize = 12

	// TrailerName labels the end-of-stream entry in diagnostics.
	TrailerName = "TRAILER!!!"
)

// magic is the 8-byte container file signature.
var magic = [magicSize]byte{'C', 'S', 'P', 'K', formatVersion, 0, 0, 0}

// Writer appends named entries to a container stream.
//
// Typical usage:
//
//	cw, err := container.NewWriter(w)
//	err = cw.WriteBytesEntry(recordName, recordBytes)
//	err = cw.WriteEntry(payloadName, size, payloadReader)
//	err = cw.Close()
type Writer struct {
	w      io.Writer
	closed bool
}

// NewWriter starts a container stream on w by writing the magic.
func NewWriter(w io.Writer) (*Writer, error) {
	if _, err := w.Write(magic[:]); err != nil {
		return nil, fmt.Errorf("writing container magic: %w", err)
	}
	return &Writer{w: w}, nil
}

// WriteEntry appends one entry, copying exactly size bytes from r.
// A short read from r fails the entry: the advertised size is part of
// the format and a shorter payload would corrupt the stream.
func (cw *Writer) WriteEntry(name string, size int64, r io.Reader) error {
	if cw.closed {
		return fmt.Errorf("container writer is closed")
	}
	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if len(name) > 0xffff {
		return fmt.Errorf("entry name too long: %d bytes", len(name))
	}
	if size < 0 {
		return fmt.Errorf("entry size cannot be negative: %d", size)
	}
	if err := cw.writeHeader(uint16(len(name)), uint64(size)); err != nil {
		return err
	}
	if _, err := io.WriteString(cw.w, name); err != nil {
		return fmt.Errorf("writing entry name %q: %w", name, err)
	}
	if _, err := io.CopyN(cw.w, r, size); err != nil {
		return fmt.Errorf("writing entry payload %q: %w", name, err)
	}
	return nil
}

// WriteBytesEntry appends one entry held in memory.
func (cw *Writer) WriteBytesEntry(name string, b []byte) error {
	if cw.closed {
		return fmt.Errorf("container writer is closed")
	}
	if name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}
	if len(name) > 0xffff {
		return fmt.Errorf("entry name too long: %d bytes", len(name))
	}
	if err := cw.writeHeader(uint16(len(name)), uint64(len(b))); err != nil {
		return err
	}
	if _, err := io.WriteString(cw.w, name); err != nil {
		return fmt.Errorf("writing entry name %q: %w", name, err)
	}
	if _, err := cw.w.Write(b); err != nil {
		return fmt.Errorf("writing entry payload %q: %w", name, err)
	}
	return nil
}

// Close terminates the stream with the trailer. It does not close the
// underlying writer.
func (cw *Writer) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	if err := cw.writeHeader(0, 0); err != nil {
		return fmt.Errorf("writing container trailer: %w", err)
	}
	return nil
}

func (cw *Writer) writeHeader(nameLen uint16, size uint64) error {
	var header [entryHeaderSize]byte
	binary.LittleEndian.PutUint16(header[0:2], nameLen)
	binary.LittleEndian.PutUint64(header[4:12], size)
	if _, err := cw.w.Write(header[:]); err != nil {
		return fmt.Errorf("writing entry header: %w", err)
	}
	return nil
}

// Reader consumes a container stream strictly forward. Next advances
// to the following entry, draining whatever is left of the current
// one; the Reader itself reads the current entry's payload and never
// beyond it.
//
//	cr, err := container.NewReader(r)
//	for {
//		err := cr.Next()
//		if err == io.EOF { break } // trailer reached
//		// cr.Name(), cr.Size(), io.Copy(dst, cr)
//	}
type Reader struct {
	r         io.Reader
	name      string
	size      int64
	remaining int64
	done      bool
}

// NewReader validates the container magic and positions the reader
// before the first entry.
func NewReader(r io.Reader) (*Reader, error) {
	var m [magicSize]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, status.ErrContainerCorrupt.Wrap(fmt.Errorf("reading container magic: %w", err))
	}
	if m != magic {
		if m[0] == 'C' && m[1] == 'S' && m[2] == 'P' && m[3] == 'K' {
			return nil, status.ErrContainerCorrupt.Wrap(
				fmt.Errorf("container version %d is not supported (this code supports version %d)", m[4], formatVersion))
		}
		return nil, status.ErrContainerCorrupt.Wrap(fmt.Errorf("invalid magic bytes"))
	}
	return &Reader{r: r}, nil
}

// Next advances to the next entry header. It returns io.EOF once the
// trailer has been observed, and status.ErrContainerCorrupt when the
// stream ends without one or an entry header is invalid.
func (cr *Reader) Next() error {
	if cr.done {
		return io.EOF
	}

	// the underlying stream is sequential: whatever the consumer left
	// unread of the current entry must be skipped first
	if cr.remaining > 0 {
		if _, err := io.CopyN(io.Discard, cr.r, cr.remaining); err != nil {
			return status.ErrContainerCorrupt.Wrap(fmt.Errorf("skipping entry %q payload: %w", cr.name, err))
		}
		cr.remaining = 0
	}

	var header [entryHeaderSize]byte
	if _, err := io.ReadFull(cr.r, header[:]); err != nil {
		return status.ErrContainerCorrupt.Wrap(fmt.Errorf("stream ended without a trailer: %w", err))
	}

	nameLen := binary.LittleEndian.Uint16(header[0:2])
	reserved := binary.LittleEndian.Uint16(header[2:4])
	size := binary.LittleEndian.Uint64(header[4:12])

	if reserved != 0 {
		return status.ErrContainerCorrupt.Wrap(fmt.Errorf("entry header has non-zero reserved bytes: %x", reserved))
	}

	if nameLen == 0 {
		if size != 0 {
			return status.ErrContainerCorrupt.Wrap(fmt.Errorf("trailer advertises a payload of %d bytes", size))
		}
		cr.done = true
		cr.name = TrailerName
		cr.size = 0
		return io.EOF
	}

	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(cr.r, nameBytes); err != nil {
		return status.ErrContainerCorrupt.Wrap(fmt.Errorf("reading entry name: %w", err))
	}

	cr.name = string(nameBytes)
	cr.size = int64(size)
	cr.remaining = int64(size)
	return nil
}

// Name returns the current entry's name.
func (cr *Reader) Name() string {
	return cr.name
}

// Size returns the current entry's advertised payload length.
func (cr *Reader) Size() int64 {
	return cr.size
}

// Read yields the current entry's payload bytes, reporting io.EOF at
// the entry boundary. A stream that ends before the advertised length
// fails with status.ErrContainerCorrupt.
func (cr *Reader) Read(p []byte) (int, error) {
	if cr.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > cr.remaining {
		p = p[:cr.remaining]
	}
	n, err := cr.r.Read(p)
	cr.remaining -= int64(n)
	if err == io.EOF && cr.remaining > 0 {
		err = status.ErrContainerCorrupt.Wrap(
			fmt.Errorf("entry %q truncated with %d bytes unread: %w", cr.name, cr.remaining, io.ErrUnexpectedEOF))
	}
	if err == io.EOF {
		err = nil
	}
	return n, err
}
