/*
NAME
  null.go

DESCRIPTION
  null.go implements NullTextureSink and NullAudioSink, sink
  implementations that do nothing observable to real hardware but record
  enough state for tests to assert against.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package device

import (
	"sync"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

// NullTextureSink records every Load call without doing anything with
// the bytes, for use by tests and by hosts with no display attached.
type NullTextureSink struct {
	mu        sync.Mutex
	loads     int
	lastFrame []byte
	lastType  dcmv.FrameType
}

// NewNullTextureSink returns a new NullTextureSink.
func NewNullTextureSink() *NullTextureSink { return &NullTextureSink{} }

// Load implements TextureSink, copying frameBuffer so later mutation by
// the caller's pool does not race with a later LastFrame call.
func (s *NullTextureSink) Load(frameBuffer []byte, frameType dcmv.FrameType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	s.lastFrame = append(s.lastFrame[:0], frameBuffer...)
	s.lastType = frameType
	return nil
}

// Loads returns the number of Load calls observed so far.
func (s *NullTextureSink) Loads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads
}

// LastFrame returns a copy of the most recently loaded frame buffer and
// its frame type, or (nil, 0) if Load has never been called.
func (s *NullTextureSink) LastFrame() ([]byte, dcmv.FrameType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastFrame == nil {
		return nil, 0
	}
	out := make([]byte, len(s.lastFrame))
	copy(out, s.lastFrame)
	return out, s.lastType
}

// NullAudioSink implements AudioSink without touching real hardware.
// Poll invokes the registered FillFunc into a scratch buffer, simulating
// a DSP pulling audio so tests can exercise the audio pump's byte
// counter without real playback.
type NullAudioSink struct {
	mu        sync.Mutex
	channels  int
	fill      FillFunc
	pollBytes int // bytes requested per Poll call.
	stereo    bool
	started   bool
}

// NewNullAudioSink returns a new NullAudioSink. pollBytes sets how many
// bytes (per channel) each Poll call requests from the registered
// FillFunc; callers that don't need Poll to do anything may pass 0.
func NewNullAudioSink(pollBytes int) *NullAudioSink {
	return &NullAudioSink{pollBytes: pollBytes}
}

// Init implements AudioSink.
func (s *NullAudioSink) Init(channels int, bufferSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = channels
	return nil
}

// Alloc implements AudioSink, always returning handle 0: NullAudioSink
// only ever manages a single stream.
func (s *NullAudioSink) Alloc(bufSize int) (AudioHandle, error) { return 0, nil }

// SetCallback implements AudioSink.
func (s *NullAudioSink) SetCallback(h AudioHandle, fill FillFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill = fill
}

// StartADPCM implements AudioSink.
func (s *NullAudioSink) StartADPCM(h AudioHandle, sampleRate int, stereo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stereo = stereo
	s.started = true
	return nil
}

// Poll implements AudioSink, pulling pollBytes (per channel) through the
// registered FillFunc if one has been set and playback has started.
func (s *NullAudioSink) Poll(h AudioHandle) {
	s.mu.Lock()
	fill, stereo, started, n := s.fill, s.stereo, s.started, s.pollBytes
	s.mu.Unlock()
	if fill == nil || !started || n == 0 {
		return
	}
	left := make([]byte, n)
	var right []byte
	if stereo {
		right = make([]byte, n)
	}
	fill(left, right)
}

// Stop implements AudioSink.
func (s *NullAudioSink) Stop(h AudioHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// Destroy implements AudioSink.
func (s *NullAudioSink) Destroy(h AudioHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill = nil
	s.started = false
}

var (
	_ TextureSink = (*NullTextureSink)(nil)
	_ AudioSink   = (*NullAudioSink)(nil)
)
