/*
NAME
  writer.go

DESCRIPTION
  writer.go implements the low-level byte-layout half of container
  construction: reserving header and offset-table space, appending
  compressed frame payloads while recording their offsets, streaming the
  audio region, and patching the header and offset table once final sizes
  are known. The packer itself (frame discovery, texture-header
  stripping, codec selection) lives in package pack; this type only knows
  about container byte layout.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package dcmv

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// audioCopyBufSize is the size of the scratch buffer used to stream the
// audio input through to the output file.
const audioCopyBufSize = 64 * 1024

// Writer builds a DCMV container on disk, one frame at a time, followed
// by a single audio-streaming pass. Use NewWriter, call WriteFrame once
// per frame in order, then WriteAudio exactly once, then Close.
type Writer struct {
	f       *os.File
	header  Header
	offsets OffsetTable

	headerPos int64 // Always 0; Close seeks to offset 0 directly.
	tablePos  int64 // Start of the reserved offset-table region.

	frameIdx int
	closed   bool
}

// NewWriter creates path (truncating any existing file) and reserves
// space for the fixed header and the num_frames+1 offset table. h's
// MaxCompressedSize and AudioOffset fields are ignored and recomputed by
// WriteFrame/WriteAudio/Close.
func NewWriter(path string, h Header) (*Writer, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "dcmv: could not create container")
	}

	// Reserve header space.
	if _, err := f.Seek(HeaderSize, io.SeekStart); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "dcmv: could not seek past header")
	}
	tablePos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Reserve offset-table space (num_frames+1 entries).
	if _, err := f.Seek(encodedSize(int(h.NumFrames)+1), io.SeekCurrent); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "dcmv: could not seek past offset table")
	}

	return &Writer{
		f:        f,
		header:   h,
		offsets:  make(OffsetTable, 0, h.NumFrames+1),
		tablePos: tablePos,
	}, nil
}

// WriteFrame appends a single compressed frame payload and records its
// start offset. Frames must be written in order, frame 0 first.
func (w *Writer) WriteFrame(compressed []byte) error {
	if w.frameIdx >= int(w.header.NumFrames) {
		return fmt.Errorf("dcmv: attempted to write frame %d, but container declares %d frames", w.frameIdx, w.header.NumFrames)
	}
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "dcmv: could not determine write position")
	}
	if _, err := w.f.Write(compressed); err != nil {
		return errors.Wrapf(err, "dcmv: could not write frame %d", w.frameIdx)
	}
	w.offsets = append(w.offsets, uint32(pos))
	if n := uint32(len(compressed)); n > w.header.MaxCompressedSize {
		w.header.MaxCompressedSize = n
	}
	w.frameIdx++
	return nil
}

// WriteAudio streams all remaining bytes of src (already stripped of any
// source-specific prefix by the caller) to the end of the container,
// recording audio_offset as the position immediately before the first
// audio byte. It must be called exactly once, after all frames have been
// written via WriteFrame.
func (w *Writer) WriteAudio(src io.Reader) (int64, error) {
	if w.frameIdx != int(w.header.NumFrames) {
		return 0, fmt.Errorf("dcmv: wrote %d of %d frames before WriteAudio", w.frameIdx, w.header.NumFrames)
	}
	pos, err := w.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	w.header.AudioOffset = uint32(pos)
	w.offsets = append(w.offsets, uint32(pos)) // Sentinel entry.

	n, err := io.CopyBuffer(w.f, src, make([]byte, audioCopyBufSize))
	if err != nil {
		return n, errors.Wrap(err, "dcmv: could not stream audio")
	}
	return n, nil
}

// Close patches the final header and offset table into their reserved
// regions and closes the underlying file. It is an error to call Close
// before WriteAudio.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer w.f.Close()

	if len(w.offsets) != int(w.header.NumFrames)+1 {
		return fmt.Errorf("dcmv: incomplete container: %d offset entries, expected %d", len(w.offsets), w.header.NumFrames+1)
	}

	if _, err := w.f.Seek(w.tablePos, io.SeekStart); err != nil {
		return errors.Wrap(err, "dcmv: could not seek to offset table")
	}
	if err := writeOffsetTable(w.f, w.offsets); err != nil {
		return errors.Wrap(err, "dcmv: could not write offset table")
	}

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "dcmv: could not seek to header")
	}
	if err := w.header.encode(w.f); err != nil {
		return errors.Wrap(err, "dcmv: could not write header")
	}
	return nil
}

// Abort closes a partially-written container after a failed pack; the
// caller is responsible for removing the file afterwards.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}
