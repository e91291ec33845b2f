/*
NAME
  fixture.go

DESCRIPTION
  fixture.go generates synthetic DCMV packer inputs for tests: texture
  frame files carrying the recognised source headers and a DcAF-prefixed
  ADPCM audio file, so pack and player tests exercise real on-disk byte
  layouts without needing real GPU-ready textures or a real hardware
  ADPCM encoder as checked-in fixtures.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package fixture builds synthetic packer inputs for tests.
package fixture

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/dreamcast-fmv/dcmv/codec/adpcm"
)

// WriteDcTxFrame writes a synthetic "DcTx"-headed texture frame at path.
// headerBlocks controls the header size via the format's own encoding:
// skip = (headerBlocks+1)*32 bytes. payload follows the header unchanged.
func WriteDcTxFrame(path string, headerBlocks uint8, payload []byte) error {
	head := make([]byte, (int(headerBlocks)+1)*32)
	copy(head[0:4], "DcTx")
	head[9] = headerBlocks
	return writeFile(path, head, payload)
}

// WriteFixedHeaderFrame writes a synthetic frame with a fixed 16-byte
// header, using either the "DTEX" or "PVRT" magic.
func WriteFixedHeaderFrame(path, magic string, payload []byte) error {
	if magic != "DTEX" && magic != "PVRT" {
		return fmt.Errorf("fixture: unsupported magic %q", magic)
	}
	head := make([]byte, 16)
	copy(head, magic)
	return writeFile(path, head, payload)
}

// WritePlanarFrame writes payload with no header at all, for
// planar-macroblock containers.
func WritePlanarFrame(path string, payload []byte) error {
	return writeFile(path, nil, payload)
}

func writeFile(path string, head, payload []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fixture: could not create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(head); err != nil {
		return err
	}
	_, err = f.Write(payload)
	return err
}

// SineFrame returns a deterministic, non-constant byte payload of size n,
// suitable as a stand-in for a compressed texture body: a sine wave
// quantised to bytes, seeded by idx so consecutive frames differ.
func SineFrame(n, idx int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(127 + 127*math.Sin(float64(i+idx*7)/9))
	}
	return buf
}

// WriteADPCMAudio synthesises seconds worth of a sine-tone PCM signal
// at sampleRate/channels, encodes it as the headerless raw ADPCM nibble
// stream the container's audio region carries, optionally prefixes it
// with the 64-byte "DcAF" header, and writes the result to path. The
// sample count is rounded down to a whole pair, since the stream packs
// two samples per byte.
func WriteADPCMAudio(path string, sampleRate, channels int, seconds float64, dcafPrefix bool) error {
	pcm := SinePCM(sampleRate, channels, seconds)

	encoded, err := adpcm.NewEncoder().Encode(nil, pcm)
	if err != nil {
		return fmt.Errorf("fixture: could not encode audio: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fixture: could not create %s: %w", path, err)
	}
	defer f.Close()

	if dcafPrefix {
		prefix := make([]byte, 64)
		copy(prefix, "DcAF")
		if _, err := f.Write(prefix); err != nil {
			return err
		}
	}
	_, err = f.Write(encoded)
	return err
}

// SinePCM returns the little-endian 16-bit PCM sine tone WriteADPCMAudio
// encodes, so tests can compare a decoded stream against its source.
func SinePCM(sampleRate, channels int, seconds float64) []byte {
	numSamples := int(float64(sampleRate)*seconds) * channels
	numSamples -= numSamples % 2
	pcm := make([]byte, numSamples*2)
	for i := 0; i < numSamples; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*float64(i)/96))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(v))
	}
	return pcm
}
