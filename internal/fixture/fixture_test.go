/*
NAME
  fixture_test.go

DESCRIPTION
  fixture_test.go checks that WriteADPCMAudio's output is the headerless
  raw nibble stream the container's audio region carries: after removing
  the optional DcAF prefix, the remaining bytes must decode through
  RawDecoder back to a close reconstruction of the source tone.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package fixture

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamcast-fmv/dcmv/codec/adpcm"
)

func TestWriteADPCMAudioRoundTripsThroughRawDecoder(t *testing.T) {
	const (
		sampleRate = 8000
		channels   = 1
		seconds    = 0.5
	)

	for _, prefixed := range []bool{true, false} {
		name := "unprefixed"
		if prefixed {
			name = "dcaf-prefixed"
		}
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "audio.adpcm")
			if err := WriteADPCMAudio(path, sampleRate, channels, seconds, prefixed); err != nil {
				t.Fatalf("WriteADPCMAudio: %v", err)
			}
			stream, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}

			if prefixed {
				if len(stream) < 64 || !bytes.HasPrefix(stream, []byte("DcAF")) {
					t.Fatal("prefixed output does not start with a 64-byte DcAF header")
				}
				stream = stream[64:]
			} else if bytes.HasPrefix(stream, []byte("DcAF")) {
				t.Fatal("unprefixed output starts with a DcAF header")
			}

			pcm := SinePCM(sampleRate, channels, seconds)
			if want := len(pcm) / 4; len(stream) != want {
				t.Fatalf("stream is %d bytes, want %d (two samples per byte, no framing)", len(stream), want)
			}

			decoded := adpcm.NewRawDecoder().Decode(nil, stream)
			if len(decoded) != len(pcm) {
				t.Fatalf("decoded %d PCM bytes, want %d", len(decoded), len(pcm))
			}

			// Lossy codec: expect close tracking, not equality. Skip the
			// short attack while the step size adapts.
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
			const maxAllowedErr = 2000
			if maxErr > maxAllowedErr {
				t.Errorf("max reconstruction error %d exceeds %d", maxErr, maxAllowedErr)
			}
		})
	}
}
