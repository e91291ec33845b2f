/*
NAME
  header.go

DESCRIPTION
  header.go defines the fixed 43-byte DCMV container header and the
  frame-type enumeration carried in it.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package dcmv implements the DCMV container format: a fixed header, an
// offset table locating compressed video-frame payloads, and a trailing
// raw ADPCM audio region. This package is the single source of truth for
// the on-disk byte layout.
package dcmv

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
)

// FrameType identifies how a container's video payload is shaped.
type FrameType uint8

const (
	// FrameVQPaletted is a VQ-compressed, paletted-colour tile texture
	// with its source texture header already stripped by the packer.
	FrameVQPaletted FrameType = 0

	// FramePlanarMacroblock is a planar luma/chroma macroblock payload,
	// used as-is (no texture header was ever present to strip).
	FramePlanarMacroblock FrameType = 1
)

func (t FrameType) String() string {
	switch t {
	case FrameVQPaletted:
		return "vq-paletted"
	case FramePlanarMacroblock:
		return "planar-macroblock"
	default:
		return fmt.Sprintf("FrameType(%d)", uint8(t))
	}
}

// Magic is the 4-byte ASCII identifier at the start of every container.
const Magic = "DCMV"

// Version is the only container version this package understands.
const Version uint32 = 3

// HeaderSize is the exact on-disk size of the fixed header, in bytes.
//
// magic(4) + version(4) + frame_type(1) + width(2) + height(2) +
// frame_rate(4) + sample_rate(2) + channels(2) + num_frames(4) +
// frame_size(4) + max_compressed_size(4) + audio_offset(4) = 37, followed
// by 6 reserved bytes for 43 in all.
const HeaderSize = 43

// Header is the in-memory form of the fixed 43-byte container header.
type Header struct {
	FrameType         FrameType
	Width             uint16
	Height            uint16
	FrameRate         float32
	SampleRate        uint16
	Channels          uint16
	NumFrames         uint32
	FrameSize         uint32
	MaxCompressedSize uint32
	AudioOffset       uint32
}

// Validate checks the invariants a well-formed header must satisfy,
// independent of the offset table that follows it (see Reader.Open for
// the table-dependent invariants).
func (h Header) Validate() error {
	switch {
	case h.Width == 0 || h.Width%16 != 0:
		return fmt.Errorf("dcmv: width %d is not a positive multiple of 16", h.Width)
	case h.Height == 0 || h.Height%16 != 0:
		return fmt.Errorf("dcmv: height %d is not a positive multiple of 16", h.Height)
	case h.Channels != 1 && h.Channels != 2:
		return fmt.Errorf("dcmv: channels must be 1 or 2, got %d", h.Channels)
	case h.NumFrames == 0:
		return fmt.Errorf("dcmv: num_frames must be >= 1")
	case h.FrameSize == 0:
		return fmt.Errorf("dcmv: frame_size must be > 0")
	case h.FrameType != FrameVQPaletted && h.FrameType != FramePlanarMacroblock:
		return fmt.Errorf("dcmv: unrecognised frame_type %d", h.FrameType)
	}
	return nil
}

// encode writes the fixed header to w in the on-disk little-endian layout.
func (h Header) encode(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], Version)
	buf[8] = byte(h.FrameType)
	binary.LittleEndian.PutUint16(buf[9:11], h.Width)
	binary.LittleEndian.PutUint16(buf[11:13], h.Height)
	binary.LittleEndian.PutUint32(buf[13:17], math.Float32bits(h.FrameRate))
	binary.LittleEndian.PutUint16(buf[17:19], h.SampleRate)
	binary.LittleEndian.PutUint16(buf[19:21], h.Channels)
	binary.LittleEndian.PutUint32(buf[21:25], h.NumFrames)
	binary.LittleEndian.PutUint32(buf[25:29], h.FrameSize)
	binary.LittleEndian.PutUint32(buf[29:33], h.MaxCompressedSize)
	binary.LittleEndian.PutUint32(buf[33:37], h.AudioOffset)
	// Bytes [37:43) are reserved; written as zero, ignored on read.
	_, err := w.Write(buf)
	return err
}

// decodeHeader reads and validates the magic and version, returning the
// decoded Header. It does not call Header.Validate; callers that need
// the data-dependent invariants checked should call it explicitly.
func decodeHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return Header{}, errors.Wrap(err, "dcmv: short read of header")
	}
	if string(buf[0:4]) != Magic {
		return Header{}, errors.Errorf("dcmv: bad magic %q, expected %q", buf[0:4], Magic)
	}
	version := binary.LittleEndian.Uint32(buf[4:8])
	if version != Version {
		return Header{}, errors.Errorf("dcmv: unsupported version %d, expected %d", version, Version)
	}
	var h Header
	h.FrameType = FrameType(buf[8])
	h.Width = binary.LittleEndian.Uint16(buf[9:11])
	h.Height = binary.LittleEndian.Uint16(buf[11:13])
	h.FrameRate = math.Float32frombits(binary.LittleEndian.Uint32(buf[13:17]))
	h.SampleRate = binary.LittleEndian.Uint16(buf[17:19])
	h.Channels = binary.LittleEndian.Uint16(buf[19:21])
	h.NumFrames = binary.LittleEndian.Uint32(buf[21:25])
	h.FrameSize = binary.LittleEndian.Uint32(buf[25:29])
	h.MaxCompressedSize = binary.LittleEndian.Uint32(buf[29:33])
	h.AudioOffset = binary.LittleEndian.Uint32(buf[33:37])
	return h, nil
}
