/*
NAME
  lz4_test.go

DESCRIPTION
  lz4_test.go exercises the LZ4 frame codec: round trips through both
  the compressed and the literally-stored paths, and rejection of
  corrupt input.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package lz4

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripCompressible(t *testing.T) {
	c := New()
	src := bytes.Repeat([]byte("dcmv frame payload "), 256)

	compressed, err := c.Compress(nil, src)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) == 0 || compressed[0] != tagLZ4 {
		t.Fatalf("repetitive input should take the LZ4 path, got tag %d", compressed[0])
	}
	if len(compressed) >= len(src) {
		t.Errorf("repetitive input did not shrink: %d -> %d bytes", len(src), len(compressed))
	}

	dst := make([]byte, len(src))
	if err := c.Decompress(dst, compressed); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(dst, src) {
		t.Error("round trip mismatch")
	}
}

func TestRoundTripIncompressible(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(7))
	src := make([]byte, 512)
	rng.Read(src)

	compressed, err := c.Compress(nil, src)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed[0] != tagStored {
		t.Fatalf("random input should take the stored path, got tag %d", compressed[0])
	}

	dst := make([]byte, len(src))
	if err := c.Decompress(dst, compressed); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(dst, src) {
		t.Error("round trip mismatch")
	}
}

func TestDecompressRejectsCorruptInput(t *testing.T) {
	c := New()
	dst := make([]byte, 128)

	if err := c.Decompress(dst, nil); err == nil {
		t.Error("empty input should fail")
	}
	if err := c.Decompress(dst, []byte{0xFF, 0x01, 0x02}); err == nil {
		t.Error("unknown tag should fail")
	}
	if err := c.Decompress(dst, append([]byte{tagStored}, make([]byte, 10)...)); err == nil {
		t.Error("stored frame of the wrong size should fail")
	}
	if err := c.Decompress(dst, []byte{tagLZ4, 0xDE, 0xAD}); err == nil {
		t.Error("truncated LZ4 block should fail")
	}
}
