/*
NAME
  audio.go

DESCRIPTION
  audio.go implements the audio pump: the pull callback a DSP (or, for a
  software AudioSink backend, whatever drives it) invokes to stream
  ADPCM bytes from the container's audio region, and the monotonically
  increasing byte counter that anchors the presenter's A/V clock. The
  pump owns the audio file handle; no other part of the player touches
  that cursor.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ausocean/utils/logging"
)

// audioPump streams ADPCM bytes from a dedicated audio file handle to
// the registered AudioSink, tracking cumulative bytes delivered.
type audioPump struct {
	mu     sync.Mutex
	handle *os.File
	logger logging.Logger

	muted  atomic.Bool
	bytes  atomic.Uint64
	warned atomic.Bool // Underflow is logged once, not per callback.
}

// newAudioPump constructs a pump over handle, positioned by the caller
// at the start of the audio region (or at a seek target). A nil handle
// is allowed; Fill zeroes its outputs until the first seek installs one.
func newAudioPump(handle *os.File, logger logging.Logger) *audioPump {
	return &audioPump{handle: handle, logger: logger}
}

// replaceHandle installs h as the pump's audio file handle and returns
// the previous handle (possibly nil) for the caller to close, used by
// seek when reopening the audio stream at a new position.
func (p *audioPump) replaceHandle(h *os.File) *os.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.handle
	p.handle = h
	return old
}

// setMuted toggles the muted flag. While muted, Fill zeroes its outputs
// instead of reading the file, so seek can swap handles underneath it.
func (p *audioPump) setMuted(m bool) { p.muted.Store(m) }

// BytesRead returns the cumulative count of audio bytes delivered since
// playback start or the last seek. The atomic load guarantees the
// presenter observes a counter value consistent with whichever Fill
// calls preceded it.
func (p *audioPump) BytesRead() uint64 { return p.bytes.Load() }

// resetBytes zeroes the byte counter. The counter is relative to the
// current audio-start anchor, which seek resets alongside it.
func (p *audioPump) resetBytes() { p.bytes.Store(0) }

// Fill implements device.FillFunc: the DSP pull callback. For mono
// playback, right must be nil; for stereo, left and right each receive
// half the requested bytes via consecutive reads, since the container
// stores the channels in the block layout the DSP expects rather than
// interleaved by byte.
func (p *audioPump) Fill(left, right []byte) int {
	if p.muted.Load() {
		zero(left)
		zero(right)
		return len(left) + len(right)
	}

	p.mu.Lock()
	h := p.handle
	p.mu.Unlock()
	if h == nil {
		// No stream cued yet; the first seek installs the handle.
		zero(left)
		zero(right)
		return len(left) + len(right)
	}

	total := 0
	n, err := io.ReadFull(h, left)
	total += n
	p.bytes.Add(uint64(n))
	p.checkUnderflow(err, n, len(left))

	if right != nil {
		n, err = io.ReadFull(h, right)
		total += n
		p.bytes.Add(uint64(n))
		p.checkUnderflow(err, n, len(right))
	}
	return total
}

// checkUnderflow logs a one-time warning the first time a read returns
// fewer bytes than requested. The partial buffer still goes to the DSP,
// which zero-pads the remainder.
func (p *audioPump) checkUnderflow(err error, got, want int) {
	if err == nil || got == want {
		return
	}
	if p.warned.CompareAndSwap(false, true) {
		p.logger.Warning("audio pump: underflow, returning partial read", "got", got, "want", want, "error", err.Error())
	}
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
