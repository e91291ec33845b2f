/*
NAME
  frame.go

DESCRIPTION
  frame.go defines the frame codec contract: a block codec pair operating
  over opaque byte buffers with a known, fixed decompressed size. The
  container format only depends on this contract through
  max_compressed_size; the choice of codec affects throughput and ratio,
  never container layout.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package frame defines the block-compression contract used to shrink
// per-frame texture payloads for storage in a DCMV container, along with
// reference implementations.
package frame

// Codec compresses and decompresses fixed-size frame payloads.
//
// Compress takes a decompressed frame of exactly FrameSize bytes and
// returns a compressed representation with no fixed size relationship to
// the input beyond whatever the codec guarantees.
//
// Decompress takes a previously-compressed buffer and writes exactly
// FrameSize bytes to dst, returning an error if it cannot — a truncated
// or corrupt compressed buffer must fail, never write a partial frame.
type Codec interface {
	// Compress appends the compressed form of src to dst and returns the
	// extended slice.
	Compress(dst, src []byte) ([]byte, error)

	// Decompress writes exactly len(dst) decompressed bytes to dst,
	// reading from the compressed buffer src.
	Decompress(dst, src []byte) error

	// Name identifies the codec, e.g. for logging and diagnostics.
	Name() string
}
