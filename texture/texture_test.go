/*
NAME
  texture_test.go

DESCRIPTION
  texture_test.go exercises source-texture header probing: each
  recognised magic, the planar no-header case, and the failure modes.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package texture

import (
	"testing"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

func dcTxHead(blocks byte) []byte {
	head := make([]byte, 10)
	copy(head, "DcTx")
	head[9] = blocks
	return head
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name      string
		frameType dcmv.FrameType
		head      []byte
		wantKind  Kind
		wantSkip  int
		wantErr   bool
	}{
		{
			name:      "DcTx minimal header",
			frameType: dcmv.FrameVQPaletted,
			head:      dcTxHead(0),
			wantKind:  KindDcTx,
			wantSkip:  32,
		},
		{
			name:      "DcTx three extra blocks",
			frameType: dcmv.FrameVQPaletted,
			head:      dcTxHead(3),
			wantKind:  KindDcTx,
			wantSkip:  128,
		},
		{
			name:      "DTEX fixed header",
			frameType: dcmv.FrameVQPaletted,
			head:      []byte("DTEX\x00\x00\x00\x00\x00\x00"),
			wantKind:  KindDTex,
			wantSkip:  16,
		},
		{
			name:      "PVRT fixed header",
			frameType: dcmv.FrameVQPaletted,
			head:      []byte("PVRT\x00\x00\x00\x00\x00\x00"),
			wantKind:  KindPVRT,
			wantSkip:  16,
		},
		{
			name:      "planar frames carry no header",
			frameType: dcmv.FramePlanarMacroblock,
			head:      []byte{0x12, 0x34, 0x56, 0x78},
			wantKind:  KindNone,
			wantSkip:  0,
		},
		{
			name:      "unknown paletted prefix",
			frameType: dcmv.FrameVQPaletted,
			head:      []byte("JUNK\x00\x00\x00\x00\x00\x00"),
			wantErr:   true,
		},
		{
			name:      "truncated DcTx header",
			frameType: dcmv.FrameVQPaletted,
			head:      []byte("DcTx\x00"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, skip, err := Probe(tt.frameType, tt.head)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Probe succeeded with kind %q skip %d, want error", kind, skip)
				}
				return
			}
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if kind != tt.wantKind || skip != tt.wantSkip {
				t.Errorf("Probe = (%q, %d), want (%q, %d)", kind, skip, tt.wantKind, tt.wantSkip)
			}
		})
	}
}
