/*
NAME
  identity.go

DESCRIPTION
  identity.go implements a no-op frame.Codec that passes payloads through
  unchanged, for round-trip tests and for hosts that would rather spend
  disk space than decode time.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package identity provides a pass-through frame.Codec.
package identity

import "fmt"

// Codec is a frame.Codec that copies bytes without transformation.
type Codec struct{}

// New returns a new identity Codec.
func New() Codec { return Codec{} }

// Name implements frame.Codec.
func (Codec) Name() string { return "identity" }

// Compress implements frame.Codec.
func (Codec) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Decompress implements frame.Codec.
func (Codec) Decompress(dst, src []byte) error {
	if len(src) != len(dst) {
		return fmt.Errorf("identity: source is %d bytes, destination wants %d", len(src), len(dst))
	}
	copy(dst, src)
	return nil
}
