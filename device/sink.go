/*
NAME
  sink.go

DESCRIPTION
  sink.go defines the two hardware-abstraction interfaces the playback
  engine drives, plus no-op implementations used by tests and by any
  host that wants to exercise the pipeline without real GPU or DSP
  hardware. GPU primitive submission and DSP initialisation live behind
  these interfaces: the player only ever hands over bytes and pulls
  bytes, without knowing about any particular backend.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package device defines the TextureSink and AudioSink hardware
// abstractions the DCMV player drives, along with no-op implementations
// for testing and reference backends under its subdirectories.
package device

import "github.com/dreamcast-fmv/dcmv/container/dcmv"

// TextureSink accepts a decompressed video frame buffer and displays it.
// Format conversion (VQ-paletted vs planar-macroblock) and DMA
// submission are the sink's responsibility; the player only hands over
// bytes and a FrameType.
type TextureSink interface {
	// Load stages frameBuffer (exactly FrameSize bytes, owned by the
	// caller only until Load returns) for display on the next vsync.
	Load(frameBuffer []byte, frameType dcmv.FrameType) error
}

// Snapshotter is optionally implemented by a TextureSink that can read
// back its currently displayed framebuffer as RGB pixels, for
// screenshot capture. Sinks with no readable framebuffer (or none
// attached, as in tests) simply don't implement it.
type Snapshotter interface {
	// Snapshot returns the dimensions and row-major, 3-bytes-per-pixel
	// RGB content of the most recently displayed frame.
	Snapshot() (width, height int, rgb []byte, err error)
}

// AudioHandle identifies a buffer allocated by an AudioSink, mirroring
// the opaque handle the target console's sound-stream driver returns
// from its alloc call.
type AudioHandle int

// FillFunc is the pull callback the DSP invokes to obtain more audio
// bytes: it reads into left (and right, for stereo; nil for mono) and
// returns the total number of bytes produced.
type FillFunc func(left, right []byte) int

// AudioSink is the streaming-DSP abstraction the audio pump drives. The
// init/alloc/callback/start/poll/stop/destroy shape follows the target
// console's sound-stream driver API; implementations bind it to a real
// device or, for NullAudioSink, to nothing at all.
type AudioSink interface {
	// Init prepares the sink for a stream with the given channel count
	// and host-side buffer size in bytes.
	Init(channels int, bufferSize int) error

	// Alloc reserves a DSP-side buffer of bufSize bytes and returns a
	// handle to it.
	Alloc(bufSize int) (AudioHandle, error)

	// SetCallback registers fill as h's pull callback.
	SetCallback(h AudioHandle, fill FillFunc)

	// StartADPCM begins ADPCM playback on h at sampleRate, in stereo if
	// stereo is true.
	StartADPCM(h AudioHandle, sampleRate int, stereo bool) error

	// Poll services the stream driver; some backends need this called
	// periodically from outside the audio interrupt/callback context.
	Poll(h AudioHandle)

	// Stop halts playback on h without releasing it.
	Stop(h AudioHandle)

	// Destroy releases h. h must not be used afterwards.
	Destroy(h AudioHandle)
}
