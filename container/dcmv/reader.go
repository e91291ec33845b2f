/*
NAME
  reader.go

DESCRIPTION
  reader.go implements the container reader: it parses and validates the
  fixed header and offset table once, then hands out independent file
  handles for the video and audio regions so that a decode worker and an
  audio callback never contend on a single cursor.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package dcmv

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Reader parses a DCMV container's header and offset table and exposes
// the byte ranges of its frames and the start of its audio region. It
// does not itself hold an open read cursor into the file: callers that
// need to stream video or audio obtain their own handle via OpenHandle,
// one read cursor per concurrent reader.
type Reader struct {
	path   string
	header Header
	table  OffsetTable
}

// Open parses and validates the header and offset table of the container
// at path. Any I/O failure or structural invariant violation (bad magic,
// bad version, short read, decreasing offsets, sentinel mismatch) is
// fatal and returned as an error.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dcmv: could not open container")
	}
	defer f.Close()

	h, err := decodeHeader(f)
	if err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	table, err := readOffsetTable(f, int(h.NumFrames)+1)
	if err != nil {
		return nil, err
	}
	if err := table.validate(h); err != nil {
		return nil, err
	}

	return &Reader{path: path, header: h, table: table}, nil
}

// Header returns a copy of the container's parsed header.
func (r *Reader) Header() Header { return r.header }

// NumFrames returns the number of video frames in the container.
func (r *Reader) NumFrames() int { return int(r.header.NumFrames) }

// ByteRange returns the absolute file offset and length of frame i's
// compressed payload. It panics if i is out of [0, NumFrames) — callers
// are expected to have already validated frame indices against NumFrames.
func (r *Reader) ByteRange(i int) (offset int64, length int64) {
	if i < 0 || i >= r.NumFrames() {
		panic(fmt.Sprintf("dcmv: frame index %d out of range [0,%d)", i, r.NumFrames()))
	}
	return r.table.byteRange(i)
}

// AudioRegionStart returns the absolute file offset where the ADPCM
// audio stream begins.
func (r *Reader) AudioRegionStart() int64 { return int64(r.header.AudioOffset) }

// OpenHandle opens a new, independent *os.File positioned at the start
// of the container, suitable for either random-access frame reads or a
// sequential audio cursor. Each caller (the decode worker, the audio
// pump) should hold exactly one such handle for the container's lifetime.
func (r *Reader) OpenHandle() (*os.File, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "dcmv: could not open handle")
	}
	return f, nil
}
