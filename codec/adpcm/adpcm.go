/*
NAME
  adpcm.go

DESCRIPTION
  adpcm.go compresses 16-bit PCM into the headerless 4-bit ADPCM nibble
  stream the DCMV container's audio region carries: no chunk lengths, no
  predictor seed, just packed nibbles, two samples per byte. The DCMV
  runtime never transcodes audio itself (the packer only strips an
  optional 64-byte prefix from already-encoded ADPCM); this package
  exists so that internal/fixture can synthesise realistic ADPCM test
  audio from PCM tones, and so that desktop audio backends can decode
  the stream the target DSP would have decoded in hardware (raw.go).

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package adpcm provides functions to transcode between PCM and the
// headerless ADPCM stream format.
package adpcm

import (
	"encoding/binary"
	"fmt"
	"math"
)

const byteDepth = 2 // We are working with 16-bit samples.

// Table of index changes (see spec).
var indexTable = []int16{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

// Quantize step size table (see spec).
var stepTable = []int16{
	7, 8, 9, 10, 11, 12, 13, 14,
	16, 17, 19, 21, 23, 25, 28, 31,
	34, 37, 41, 45, 50, 55, 60, 66,
	73, 80, 88, 97, 107, 118, 130, 143,
	157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658,
	724, 796, 876, 963, 1060, 1166, 1282, 1411,
	1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024,
	3327, 3660, 4026, 4428, 4871, 5358, 5894, 6484,
	7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794,
	32767,
}

// Encoder compresses 16-bit PCM samples into a headerless stream of
// 4-bit ADPCM nibbles, carrying its predictor state across calls. The
// predictor starts from the same zero state RawDecoder starts from, so
// a stream encoded from the beginning decodes without any out-of-band
// seed.
type Encoder struct {
	est int16 // Estimation of sample based on quantised ADPCM nibble.
	idx int16 // Index to step used for estimation.
}

// NewEncoder returns a new ADPCM Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// encodeSample takes a single 16 bit PCM sample and
// returns a byte of which the last 4 bits are an encoded ADPCM nibble.
func (e *Encoder) encodeSample(sample int16) byte {
	// Find difference between the sample and the previous estimation.
	delta := capAdd16(sample, -e.est)

	// Create and set sign bit for nibble and find absolute value of difference.
	var nib byte
	if delta < 0 {
		nib = 8
		delta = -delta
	}

	step := stepTable[e.idx]
	diff := step >> 3
	var mask byte = 4

	for i := 0; i < 3; i++ {
		if delta > step {
			nib |= mask
			delta = capAdd16(delta, -step)
			diff = capAdd16(diff, step)
		}
		mask >>= 1
		step >>= 1
	}

	if nib&8 != 0 {
		diff = -diff
	}

	// Adjust estimated sample based on calculated difference.
	e.est = capAdd16(e.est, diff)

	e.idx += indexTable[nib&7]

	// Check for underflow and overflow.
	if e.idx < 0 {
		e.idx = 0
	} else if e.idx > int16(len(stepTable)-1) {
		e.idx = int16(len(stepTable) - 1)
	}

	return nib
}

// EncodePair packs two consecutive samples into one ADPCM byte, first
// sample in the low nibble, matching RawDecoder.DecodeByte's layout.
func (e *Encoder) EncodePair(s0, s1 int16) byte {
	nib1 := e.encodeSample(s0)
	nib2 := e.encodeSample(s1)
	return (nib2 << 4) | nib1
}

// Encode appends the packed ADPCM encoding of src, little-endian 16-bit
// PCM, to dst and returns the extended slice. len(src) must hold a
// whole number of sample pairs, since the stream format has no way to
// mark a padding nibble.
func (e *Encoder) Encode(dst, src []byte) ([]byte, error) {
	if len(src)%(2*byteDepth) != 0 {
		return dst, fmt.Errorf("adpcm: pcm length %d is not a whole number of sample pairs", len(src))
	}
	for i := 0; i < len(src); i += 2 * byteDepth {
		s0 := int16(binary.LittleEndian.Uint16(src[i:]))
		s1 := int16(binary.LittleEndian.Uint16(src[i+byteDepth:]))
		dst = append(dst, e.EncodePair(s0, s1))
	}
	return dst, nil
}

// capAdd16 adds two int16s together and caps at max/min int16 instead of overflowing
func capAdd16(a, b int16) int16 {
	c := int32(a) + int32(b)
	switch {
	case c < math.MinInt16:
		return math.MinInt16
	case c > math.MaxInt16:
		return math.MaxInt16
	default:
		return int16(c)
	}
}
