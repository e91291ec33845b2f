/*
NAME
  offsets.go

DESCRIPTION
  offsets.go implements the num_frames+1 entry offset table that follows
  the fixed header: reading, writing, and the byte-range arithmetic that
  derives a frame's compressed length from consecutive entries.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package dcmv

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// OffsetTable holds the num_frames+1 absolute byte positions following the
// header: entry i (i < NumFrames) is where frame i's compressed payload
// begins; the final entry is the sentinel equal to the audio region's
// start, so that Length(i) = table[i+1] - table[i].
type OffsetTable []uint32

// encodedSize is the number of bytes an OffsetTable with n entries
// occupies on disk.
func encodedSize(n int) int64 { return int64(n) * 4 }

// writeOffsetTable writes t to w as consecutive little-endian u32 values.
func writeOffsetTable(w io.Writer, t OffsetTable) error {
	buf := make([]byte, 4*len(t))
	for i, v := range t {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	_, err := w.Write(buf)
	return err
}

// readOffsetTable reads n consecutive little-endian u32 values from r.
func readOffsetTable(r io.Reader, n int) (OffsetTable, error) {
	buf := make([]byte, 4*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "dcmv: short read of offset table")
	}
	t := make(OffsetTable, n)
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return t, nil
}

// validate checks the structural invariants of an offset table given the
// header it belongs to: monotonicity and a sentinel matching
// audio_offset. The packer always writes strictly increasing entries,
// but equal adjacent entries (a zero-length frame, as left by a damaged
// table) are tolerated here so such a container still opens and the
// damage surfaces as a per-frame decode failure instead.
func (t OffsetTable) validate(h Header) error {
	if len(t) != int(h.NumFrames)+1 {
		return fmt.Errorf("dcmv: offset table has %d entries, expected %d", len(t), h.NumFrames+1)
	}
	for i := 0; i+1 < len(t); i++ {
		if t[i] > t[i+1] {
			return fmt.Errorf("dcmv: offset table decreasing at entry %d (%d > %d)", i, t[i], t[i+1])
		}
	}
	if t[len(t)-1] != h.AudioOffset {
		return fmt.Errorf("dcmv: offset table sentinel %d does not match audio_offset %d", t[len(t)-1], h.AudioOffset)
	}
	return nil
}

// byteRange returns the absolute start offset and length of frame i's
// compressed payload.
func (t OffsetTable) byteRange(i int) (start int64, length int64) {
	return int64(t[i]), int64(t[i+1] - t[i])
}
