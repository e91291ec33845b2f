/*
NAME
  player.go

DESCRIPTION
  player.go defines Player, the type that owns every handle, buffer, and
  clock-state value the runtime needs for one container's lifetime. Open
  parses the container and wires the decode worker, audio pump, and
  presentation loop together; Start launches the worker; Run drives the
  presentation loop on the calling goroutine; Close tears everything
  down in dependency order.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"fmt"
	"os"
	"sync"

	lz4codec "github.com/dreamcast-fmv/dcmv/codec/frame/lz4"
	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/device"
	"github.com/dreamcast-fmv/dcmv/internal/nulllog"
)

// audioBufferSize is the host-side buffer size handed to AudioSink.Init,
// chosen generously relative to one frame period's worth of ADPCM bytes
// at typical FMV sample rates.
const audioBufferSize = 64 * 1024

// Player owns a single open DCMV container and the concurrent pipeline
// that plays it back: the decode worker (its own goroutine), the audio
// pump (driven by the AudioSink's callback), and the presentation loop
// (driven by Run on the caller's goroutine).
type Player struct {
	cfg    Config
	reader *dcmv.Reader

	pool *Pool
	ring *Ring
	pump *audioPump

	videoHandle *os.File
	audioHandle device.AudioHandle

	worker    *worker
	presenter *Presenter

	stopWorker chan struct{}
	wg         sync.WaitGroup

	closeOnce sync.Once
}

// Open parses the container at path, validates cfg, and wires together
// the pool, ring, decode worker, audio pump, and presentation loop. The
// returned Player is not yet playing: call Start then Run.
func Open(path string, cfg Config) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("player: invalid config: %w", err)
	}
	if cfg.Codec == nil {
		cfg.Codec = lz4codec.New()
	}
	if cfg.Clock == nil {
		cfg.Clock = NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = nulllog.New()
	}

	reader, err := dcmv.Open(path)
	if err != nil {
		return nil, err
	}

	h := reader.Header()
	pool := NewPool(cfg.NumBuffers, int(h.FrameSize))
	ring := NewRing(cfg.NumBuffers)

	videoHandle, err := reader.OpenHandle()
	if err != nil {
		return nil, err
	}

	pump := newAudioPump(nil, cfg.Logger)

	if err := cfg.AudioSink.Init(int(h.Channels), audioBufferSize); err != nil {
		videoHandle.Close()
		return nil, fmt.Errorf("player: audio sink init failed: %w", err)
	}
	audioHandle, err := cfg.AudioSink.Alloc(audioBufferSize)
	if err != nil {
		videoHandle.Close()
		return nil, fmt.Errorf("player: audio sink alloc failed: %w", err)
	}
	cfg.AudioSink.SetCallback(audioHandle, pump.Fill)
	if err := cfg.AudioSink.StartADPCM(audioHandle, int(h.SampleRate), h.Channels == 2); err != nil {
		videoHandle.Close()
		return nil, fmt.Errorf("player: audio sink start failed: %w", err)
	}

	p := &Player{
		cfg:         cfg,
		reader:      reader,
		pool:        pool,
		ring:        ring,
		pump:        pump,
		videoHandle: videoHandle,
		audioHandle: audioHandle,
		stopWorker:  make(chan struct{}),
	}

	poll := func() { cfg.AudioSink.Poll(audioHandle) }
	p.worker = newWorker(reader, videoHandle, cfg.Codec, pool, ring, cfg.Logger, poll)
	p.presenter = newPresenter(reader, pool, ring, pump, cfg.Clock, cfg.TextureSink, cfg.StallLimit, cfg.SeekStep, cfg.Logger)

	return p, nil
}

// Start launches the decode worker goroutine. The presentation loop is
// driven separately by Run so it stays on the caller's thread.
func (p *Player) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.worker.run(p.stopWorker)
	}()
}

// Run cues playback to frame 0 and executes the presentation loop on the
// calling goroutine until the container is exhausted or RequestExit is
// called. Start must have been called first so the decode worker is
// available to service preload requests.
func (p *Player) Run() (Stats, error) {
	return p.presenter.Run()
}

// RequestSeekForward requests a jump SeekStep frames ahead.
func (p *Player) RequestSeekForward() { p.presenter.RequestSeekForward() }

// RequestSeekBackward requests a jump SeekStep frames back.
func (p *Player) RequestSeekBackward() { p.presenter.RequestSeekBackward() }

// RequestSeek jumps to an arbitrary frame, clamped to the valid range.
func (p *Player) RequestSeek(frame int) { p.presenter.RequestSeek(frame) }

// RequestExit asks Run to return cleanly.
func (p *Player) RequestExit() { p.presenter.RequestExit() }

// CurrentFrame returns the index of the frame the presenter is scheduled
// to draw next.
func (p *Player) CurrentFrame() int { return p.presenter.CurrentFrame() }

// Header returns the container's parsed header.
func (p *Player) Header() dcmv.Header { return p.reader.Header() }

// Close stops the decode worker, halts and releases the audio sink, and
// closes every file handle the Player opened. It is safe to call more
// than once.
func (p *Player) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.stopWorker)
		p.wg.Wait()

		p.cfg.AudioSink.Stop(p.audioHandle)
		p.cfg.AudioSink.Destroy(p.audioHandle)

		if cerr := p.videoHandle.Close(); cerr != nil {
			err = cerr
		}
		if h := p.pump.replaceHandle(nil); h != nil {
			if cerr := h.Close(); cerr != nil {
				err = cerr
			}
		}
	})
	return err
}
