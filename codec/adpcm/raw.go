/*
NAME
  raw.go

DESCRIPTION
  raw.go decodes the headerless ADPCM nibble stream Encoder produces,
  straight off the wire: no chunk framing, no predictor seed, state
  carrying across calls the way the target DSP's decoder carries state
  across buffer-fill interrupts. device/otosink drives it from the pull
  callback to turn container audio into PCM for the host sound card.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package adpcm

// RawDecoder decodes a headerless stream of 4-bit ADPCM nibbles into
// 16-bit PCM samples, carrying its predictor state across calls. It is
// the inverse of Encoder: both start from the same zero predictor
// state, so callers feed it exactly the bytes the container's audio
// region carries.
type RawDecoder struct {
	est  int16
	idx  int16
	step int16
}

// NewRawDecoder returns a RawDecoder with its predictor initialised to
// the same zero state an encoder starts from.
func NewRawDecoder() *RawDecoder {
	return &RawDecoder{step: stepTable[0]}
}

// DecodeByte decodes one packed byte (two 4-bit nibbles, low nibble
// first) into two 16-bit PCM samples.
func (d *RawDecoder) DecodeByte(b byte) (s0, s1 int16) {
	return d.decodeNibble(b & 0x0f), d.decodeNibble(b >> 4)
}

// Decode decodes a slice of packed ADPCM bytes into little-endian 16-bit
// PCM samples, appending to dst and returning the extended slice.
func (d *RawDecoder) Decode(dst []byte, src []byte) []byte {
	for _, b := range src {
		s0, s1 := d.DecodeByte(b)
		dst = append(dst, byte(s0), byte(s0>>8), byte(s1), byte(s1>>8))
	}
	return dst
}

func (d *RawDecoder) decodeNibble(nibble byte) int16 {
	var diff int16
	if nibble&4 != 0 {
		diff = capAdd16(diff, d.step)
	}
	if nibble&2 != 0 {
		diff = capAdd16(diff, d.step>>1)
	}
	if nibble&1 != 0 {
		diff = capAdd16(diff, d.step>>2)
	}
	diff = capAdd16(diff, d.step>>3)

	if nibble&8 != 0 {
		diff = -diff
	}

	d.est = capAdd16(d.est, diff)

	d.idx += indexTable[nibble]
	if d.idx < 0 {
		d.idx = 0
	} else if d.idx > int16(len(stepTable)-1) {
		d.idx = int16(len(stepTable) - 1)
	}
	d.step = stepTable[d.idx]

	return d.est
}
