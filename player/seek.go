/*
NAME
  seek.go

DESCRIPTION
  seek.go implements frame-boundary seek: muting and repositioning the
  audio stream, discarding every buffered frame and preload request, and
  re-priming the pipeline at the target frame. Seek is only ever invoked
  from the presenter goroutine (drained from the atomic seek-request
  token), so no other thread can observe a partial seek.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import "io"

// performSeek cues the whole pipeline to target frame t, which the
// caller has already clamped to [0, numFrames-1].
func (p *Presenter) performSeek(t int) error {
	p.pump.setMuted(true)

	p.pool.ResetAll()
	p.ring.Reset()

	samplesPerFrame := float64(p.header.SampleRate) / float64(p.header.FrameRate)
	// ADPCM packs 2 samples per byte, and the DSP requires its stream
	// position on a 16-byte block boundary.
	bytesToSkip := (int64(float64(t)*samplesPerFrame)/2 + 15) &^ 15
	filePos := p.reader.AudioRegionStart() + bytesToSkip

	newHandle, err := p.reader.OpenHandle()
	if err != nil {
		p.pump.setMuted(false)
		return err
	}
	if _, err := newHandle.Seek(filePos, io.SeekStart); err != nil {
		newHandle.Close()
		p.pump.setMuted(false)
		return err
	}

	old := p.pump.replaceHandle(newHandle)
	if old != nil {
		old.Close()
	}
	p.pump.resetBytes()

	p.audioStartMS = float64(t) * samplesPerFrame * 1000 / float64(p.header.SampleRate)
	p.frameIndex.Store(int32(t))
	p.debt = 0
	p.stalls = 0

	for j := t; j < t+p.numBuffers && j < p.numFrames; j++ {
		p.ring.Push(j)
	}

	p.pump.setMuted(false)
	return nil
}

// clampFrame silently clamps a requested seek target to the container's
// valid frame range.
func clampFrame(t, numFrames int) int {
	switch {
	case t < 0:
		return 0
	case t >= numFrames:
		return numFrames - 1
	default:
		return t
	}
}
