/*
NAME
  audio.go

DESCRIPTION
  audio.go implements audio-input prefix stripping: an optional 64-byte
  audio-tool header, identified by the 4-byte magic "DcAF", is skipped
  before the remaining bytes are streamed into the container.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package pack

import (
	"fmt"
	"io"
)

// audioPrefixMagic identifies an optional audio-tool header prefixed to
// some source audio files.
const audioPrefixMagic = "DcAF"

// audioPrefixSize is the total size of the DcAF prefix, including its
// 4-byte magic.
const audioPrefixSize = 64

// stripAudioPrefix peeks the first 4 bytes of r; if they match the DcAF
// magic, it advances r past the full 64-byte prefix, otherwise it rewinds
// r to where it started. r must support both Read and Seek, matching the
// packer's need to open the audio source as a regular file.
func stripAudioPrefix(r io.ReadSeeker) (bool, error) {
	head := make([]byte, 4)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, fmt.Errorf("pack: could not peek audio header: %w", err)
	}
	if n == 4 && string(head) == audioPrefixMagic {
		if _, err := r.Seek(audioPrefixSize, io.SeekStart); err != nil {
			return false, fmt.Errorf("pack: could not skip DcAF audio header: %w", err)
		}
		return true, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return false, fmt.Errorf("pack: could not rewind audio source: %w", err)
	}
	return false, nil
}
