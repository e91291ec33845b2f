/*
NAME
  texture.go

DESCRIPTION
  texture.go implements probing of pre-encoded GPU texture files to
  determine how many leading bytes of vendor-specific header must be
  stripped before the remaining bytes become an opaque per-frame payload.
  The packer probes frame 0 once and applies the same skip to every
  subsequent frame.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package texture strips vendor-specific headers from pre-encoded GPU
// texture files, leaving the opaque per-frame payload the DCMV packer
// stores.
package texture

import (
	"fmt"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

// Kind names a recognised source texture format.
type Kind string

const (
	KindDcTx Kind = "DcTx" // Variable-size header: (byte[9]+1)*32 bytes.
	KindDTex Kind = "DTEX" // Fixed 16-byte header.
	KindPVRT Kind = "PVRT" // Fixed 16-byte header; same layout as DTEX.
	KindNone Kind = ""     // No header (planar-macroblock frames).
)

const fixedHeaderSize = 16

// Probe inspects the first bytes of a frame 0 source file (at least 10
// bytes for the DcTx case) and the container's frame type, returning the
// recognised header Kind and the number of leading bytes to skip.
//
// Paletted frames must carry a DcTx, DTEX or PVRT header;
// planar-macroblock frames carry no header at all (skip is always 0),
// and any other paletted prefix is an unknown-texture-format error.
func Probe(frameType dcmv.FrameType, head []byte) (Kind, int, error) {
	if frameType == dcmv.FramePlanarMacroblock {
		return KindNone, 0, nil
	}

	switch {
	case hasPrefix(head, "DcTx"):
		if len(head) < 10 {
			return "", 0, fmt.Errorf("texture: DcTx header truncated, need 10 bytes, got %d", len(head))
		}
		h := head[9]
		return KindDcTx, (int(h) + 1) * 32, nil
	case hasPrefix(head, "DTEX"):
		return KindDTex, fixedHeaderSize, nil
	case hasPrefix(head, "PVRT"):
		return KindPVRT, fixedHeaderSize, nil
	default:
		return "", 0, fmt.Errorf("texture: unknown texture format (prefix %q)", safePrefix(head))
	}
}

func hasPrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

func safePrefix(b []byte) []byte {
	if len(b) > 4 {
		return b[:4]
	}
	return b
}
