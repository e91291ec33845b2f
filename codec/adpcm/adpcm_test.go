/*
NAME
  adpcm_test.go

DESCRIPTION
  adpcm_test.go checks that Encoder's headerless nibble stream and
  RawDecoder's predictor math stay consistent: a stream encoded from the
  zero state must decode back to a close reconstruction of the input,
  with no out-of-band seed.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package adpcm

import (
	"encoding/binary"
	"math"
	"testing"
)

// sineTone generates n 16-bit little-endian PCM samples of a sine wave,
// which exercises the predictor across its full amplitude range rather
// than silence or a constant value.
func sineTone(n int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := int16(10000 * math.Sin(2*math.Pi*float64(i)/64))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(v))
	}
	return pcm
}

func TestEncodeRawDecodeRoundTrip(t *testing.T) {
	const numSamples = 4000
	pcm := sineTone(numSamples)

	enc := NewEncoder()
	encoded, err := enc.Encode(nil, pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if want := numSamples / 2; len(encoded) != want {
		t.Fatalf("encoded length = %d, want %d (two samples per byte)", len(encoded), want)
	}

	dec := NewRawDecoder()
	decoded := dec.Decode(nil, encoded)
	if len(decoded) != len(pcm) {
		t.Fatalf("decoded length = %d, want %d", len(decoded), len(pcm))
	}

	// ADPCM is lossy; check the reconstruction tracks the original
	// reasonably closely rather than expecting an exact match. The
	// first samples are skipped: the step size starts at its minimum
	// and takes a short attack to adapt to the signal's slope.
	const skipSamples = 64
	var maxErr int
	for i := skipSamples * 2; i+1 < len(pcm); i += 2 {
		want := int16(binary.LittleEndian.Uint16(pcm[i:]))
		got := int16(binary.LittleEndian.Uint16(decoded[i:]))
		d := int(want) - int(got)
		if d < 0 {
			d = -d
		}
		if d > maxErr {
			maxErr = d
		}
	}
	const maxAllowedErr = 2000 // Out of a +-32767 range.
	if maxErr > maxAllowedErr {
		t.Errorf("max reconstruction error %d exceeds %d", maxErr, maxAllowedErr)
	}
}

// TestEncodePairDecodeByteSymmetry drives one pair at a time through
// both predictors, checking byte-level agreement with the bulk paths.
func TestEncodePairDecodeByteSymmetry(t *testing.T) {
	pcm := sineTone(256)

	enc := NewEncoder()
	dec := NewRawDecoder()
	bulkEnc := NewEncoder()
	bulk, err := bulkEnc.Encode(nil, pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bulkPCM := NewRawDecoder().Decode(nil, bulk)

	for i := 0; i < len(pcm); i += 4 {
		s0 := int16(binary.LittleEndian.Uint16(pcm[i:]))
		s1 := int16(binary.LittleEndian.Uint16(pcm[i+2:]))
		b := enc.EncodePair(s0, s1)
		if b != bulk[i/4] {
			t.Fatalf("byte %d: EncodePair = %#x, Encode = %#x", i/4, b, bulk[i/4])
		}
		d0, d1 := dec.DecodeByte(b)
		w0 := int16(binary.LittleEndian.Uint16(bulkPCM[i:]))
		w1 := int16(binary.LittleEndian.Uint16(bulkPCM[i+2:]))
		if d0 != w0 || d1 != w1 {
			t.Fatalf("byte %d: DecodeByte = (%d, %d), Decode = (%d, %d)", i/4, d0, d1, w0, w1)
		}
	}
}

func TestEncodeRejectsPartialPair(t *testing.T) {
	enc := NewEncoder()
	if _, err := enc.Encode(nil, make([]byte, 6)); err == nil {
		t.Error("Encode should reject input that is not a whole number of sample pairs")
	}
}
