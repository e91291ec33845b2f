/*
NAME
  otosink.go

DESCRIPTION
  otosink.go implements device.AudioSink on top of a desktop sound card
  via github.com/hajimehoshi/oto/v2, so cmd/dcmvplay can run on a
  developer's machine instead of the target console's DSP. The real DSP
  decodes ADPCM internally as it streams; oto only accepts PCM, so Sink
  decodes with codec/adpcm.RawDecoder on the way from the FillFunc
  callback to oto's player, the same role the console's DSP plays in
  hardware.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package otosink is a desktop reference device.AudioSink backed by
// github.com/hajimehoshi/oto/v2.
package otosink

import (
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"github.com/dreamcast-fmv/dcmv/codec/adpcm"
	"github.com/dreamcast-fmv/dcmv/device"
)

const (
	bitDepthBytes = 2 // oto wants 16-bit PCM.
	pullBytes     = 4096
)

// Sink is a device.AudioSink that plays ADPCM audio through the host
// sound card. A process needs at most one Sink, since oto's Context owns
// the host audio device. Init fails when called a second time on the
// same Sink; it does not detect a second Sink in the same process.
type Sink struct {
	mu       sync.Mutex
	ctx      *oto.Context
	stream   *pullReader
	player   oto.Player
	handle   device.AudioHandle
	channels int
	bufSize  int
	started  bool
}

// New returns an unopened Sink. Call Init before use.
func New() *Sink { return &Sink{} }

// Init records the channel count. oto's Context fixes its sample rate
// at creation time, but Init runs before StartADPCM supplies the sample
// rate, so the real oto.Context is opened lazily in StartADPCM instead
// of here.
func (s *Sink) Init(channels int, bufferSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channels != 0 {
		return fmt.Errorf("otosink: already initialised")
	}
	s.channels = channels
	s.bufSize = bufferSize
	return nil
}

// Alloc returns the single handle this backend supports; it does not
// allocate DSP RAM the way the real hardware would.
func (s *Sink) Alloc(bufSize int) (device.AudioHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.channels == 0 {
		return 0, fmt.Errorf("otosink: Alloc before Init")
	}
	s.handle = 1
	if bufSize <= 0 {
		bufSize = s.bufSize
	}
	s.stream = newPullReader(bufSize)
	return s.handle, nil
}

// SetCallback registers the pump's Fill function as the source the
// backing pullReader drains from.
func (s *Sink) SetCallback(h device.AudioHandle, fill device.FillFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		s.stream.fill = fill
	}
}

// StartADPCM starts oto playback of the stream, decoding ADPCM to PCM
// on the fly.
func (s *Sink) StartADPCM(h device.AudioHandle, sampleRate int, stereo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return fmt.Errorf("otosink: StartADPCM before Init/Alloc")
	}
	if s.ctx == nil {
		ctx, ready, err := oto.NewContext(sampleRate, s.channels, bitDepthBytes)
		if err != nil {
			return fmt.Errorf("otosink: oto.NewContext: %w", err)
		}
		<-ready
		s.ctx = ctx
	}
	s.stream.decoder = adpcm.NewRawDecoder()
	if stereo {
		s.stream.rightDecoder = adpcm.NewRawDecoder()
	}
	s.player = s.ctx.NewPlayer(s.stream)
	s.player.Play()
	s.started = true
	return nil
}

// Poll is a no-op for oto, which drives playback from its own internal
// goroutine rather than needing an external pump.
func (s *Sink) Poll(h device.AudioHandle) {}

// Stop pauses playback without releasing the player.
func (s *Sink) Stop(h device.AudioHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Pause()
	}
	s.started = false
}

// Destroy releases the oto player and host audio device.
func (s *Sink) Destroy(h device.AudioHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	s.stream = nil
}

var _ device.AudioSink = (*Sink)(nil)

// pullReader adapts a device.FillFunc (pull callback, ADPCM bytes) into
// an io.Reader of interleaved 16-bit PCM, which is what oto.Player wants.
// It decodes each buffer fill returns in one pass, one decoder per
// channel, carrying each channel's predictor state across Read calls the same way
// the DSP's ADPCM decoder carries state across buffer-fill interrupts.
type pullReader struct {
	fill         device.FillFunc
	decoder      *adpcm.RawDecoder
	rightDecoder *adpcm.RawDecoder
	adpcmBuf     []byte
	rightBuf     []byte
	pcmLeftover  []byte
}

func newPullReader(bufSize int) *pullReader {
	if bufSize <= 0 {
		bufSize = pullBytes
	}
	return &pullReader{
		adpcmBuf: make([]byte, bufSize),
		rightBuf: make([]byte, bufSize),
	}
}

// Read fills p with decoded PCM, pulling fresh ADPCM from fill whenever
// its leftover buffer runs dry.
func (p *pullReader) Read(dst []byte) (int, error) {
	if p.fill == nil {
		for i := range dst {
			dst[i] = 0
		}
		return len(dst), nil
	}
	for len(p.pcmLeftover) == 0 {
		stereo := p.rightDecoder != nil
		var right []byte
		if stereo {
			right = p.rightBuf
		}
		n := p.fill(p.adpcmBuf, right)
		if n <= 0 {
			for i := range dst {
				dst[i] = 0
			}
			return len(dst), nil
		}
		// n counts the bytes of both channels together.
		perChannel := n
		if stereo {
			perChannel = n / 2
		}
		var pcm []byte
		pcm = p.decoder.Decode(pcm, p.adpcmBuf[:perChannel])
		if stereo {
			rightPCM := p.rightDecoder.Decode(nil, p.rightBuf[:perChannel])
			pcm = interleaveStereo(pcm, rightPCM)
		}
		p.pcmLeftover = pcm
	}
	n := copy(dst, p.pcmLeftover)
	p.pcmLeftover = p.pcmLeftover[n:]
	return n, nil
}

func interleaveStereo(left, right []byte) []byte {
	out := make([]byte, 0, len(left)+len(right))
	for i := 0; i+1 < len(left) && i+1 < len(right); i += 2 {
		out = append(out, left[i], left[i+1], right[i], right[i+1])
	}
	return out
}

var _ io.Reader = (*pullReader)(nil)
