/*
NAME
  presenter.go

DESCRIPTION
  presenter.go implements the presentation loop: the main scheduler
  choosing which frame to draw, driving audio/video sync, frame skipping,
  and feeding the preload ring. It owns the frame index, the seek request
  token, and all interactions with the texture sink.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/device"
)

// Thresholds governing the wait phase of the main loop: sleep when the
// next frame is far off, yield when it is close, spin when imminent.
const (
	sleepThresholdMS = 8
	sleepSlackMS     = 3
	yieldThresholdMS = 1
)

// Stats summarises a presentation run for diagnostics and tests.
type Stats struct {
	Presented int
	Dropped   int
}

// Presenter drives the presentation loop over a single container.
type Presenter struct {
	reader *dcmv.Reader
	pool   *Pool
	ring   *Ring
	pump   *audioPump
	clock  Clock
	sink   device.TextureSink
	logger logging.Logger

	header     dcmv.Header
	frameMS    float64
	numFrames  int
	numBuffers int
	stallLimit int
	seekStep   int
	bytesPerMS float64

	frameIndex atomic.Int32
	seekReq    atomic.Int32
	exitReq    atomic.Bool

	// audioStartMS and debt are touched only by the goroutine running
	// Run, so they need no synchronisation of their own.
	audioStartMS float64
	debt         float64
	stalls       int

	// lastPresented is the index of the most recently drawn frame, as
	// reported by LastPresentedFrame.
	lastPresented int

	stats Stats
}

// LastPresentedFrame returns the index of the most recently drawn frame,
// or -1 if none has been drawn yet.
func (p *Presenter) LastPresentedFrame() int { return p.lastPresented }

// newPresenter constructs a Presenter. Callers must call Run (typically
// on the main goroutine) to start playback; Run performs the initial cue
// to frame 0.
func newPresenter(reader *dcmv.Reader, pool *Pool, ring *Ring, pump *audioPump, clock Clock, sink device.TextureSink, stallLimit, seekStep int, logger logging.Logger) *Presenter {
	h := reader.Header()
	p := &Presenter{
		reader:        reader,
		pool:          pool,
		ring:          ring,
		pump:          pump,
		clock:         clock,
		sink:          sink,
		logger:        logger,
		header:        h,
		frameMS:       1000 / float64(h.FrameRate),
		numFrames:     reader.NumFrames(),
		numBuffers:    pool.NumBuffers(),
		stallLimit:    stallLimit,
		seekStep:      seekStep,
		bytesPerMS:    float64(h.SampleRate) * float64(h.Channels) * 0.5 / 1000,
		lastPresented: -1,
	}
	p.seekReq.Store(-1)
	return p
}

// RequestSeek asks the presenter to jump to frame t on its next
// iteration, clamped to the valid frame range.
func (p *Presenter) RequestSeek(t int) {
	p.seekReq.Store(int32(clampFrame(t, p.numFrames)))
}

// RequestSeekForward requests a jump SeekStep frames ahead of the
// currently scheduled frame.
func (p *Presenter) RequestSeekForward() {
	p.RequestSeek(int(p.frameIndex.Load()) + p.seekStep)
}

// RequestSeekBackward requests a jump SeekStep frames back.
func (p *Presenter) RequestSeekBackward() {
	p.RequestSeek(int(p.frameIndex.Load()) - p.seekStep)
}

// RequestExit asks Run to return cleanly at its next iteration.
func (p *Presenter) RequestExit() { p.exitReq.Store(true) }

// CurrentFrame returns the index of the frame the presenter is currently
// scheduled to draw next.
func (p *Presenter) CurrentFrame() int { return int(p.frameIndex.Load()) }

// Stats returns a snapshot of presented/dropped frame counts so far.
func (p *Presenter) Stats() Stats { return p.stats }

// Run cues the pipeline to frame 0 and then executes the presentation
// loop until every frame has been presented, an exit is requested, or an
// unrecoverable seek error occurs.
func (p *Presenter) Run() (Stats, error) {
	if err := p.performSeek(0); err != nil {
		return p.stats, err
	}

	for {
		if p.exitReq.Load() {
			return p.stats, nil
		}

		if t, ok := p.drainSeek(); ok {
			if err := p.performSeek(t); err != nil {
				return p.stats, err
			}
			continue
		}

		i := p.CurrentFrame()
		if i >= p.numFrames {
			return p.stats, nil
		}

		renderStart := p.clock.NowMS()
		currentAudioMS := p.currentAudioTimeMS()
		targetMS := float64(i)*p.frameMS + clampf(p.debt, -p.frameMS/2, p.frameMS/2)

		// Skip ahead: the decoder has fallen behind the audio anchor.
		for i+1 < p.numFrames && float64(i)*p.frameMS < p.audioStartMS {
			i++
			p.stats.Dropped++
			p.debt = 0
		}

		presented := false
		if currentAudioMS >= targetMS {
			slot := i % p.numBuffers
			if p.pool.State(slot) == slotReady {
				if err := p.sink.Load(p.pool.Buffer(slot), p.header.FrameType); err != nil {
					p.logger.Error("presenter: texture sink load failed", "frame", i, "error", err.Error())
				}
				p.lastPresented = i
				p.pool.MarkEmpty(slot)

				p.maybeQueueNext(i)
				i++
				p.stalls = 0
				p.stats.Presented++
				presented = true
			} else {
				p.stalls++
				if p.stalls >= p.stallLimit {
					p.logger.Warning("presenter: stall limit reached, dropping frame", "frame", i, "stalls", p.stalls)
					// The slot this frame occupied failed to decode and was
					// already marked EMPTY by the worker: re-prime the
					// window from here so later frames keep getting queued
					// instead of starving forever.
					p.maybeQueueNext(i)
					i++
					p.stats.Dropped++
					p.stalls = 0
				}
			}
		}
		p.frameIndex.Store(int32(i))

		renderEnd := p.clock.NowMS()
		thisFrameMS := renderEnd - renderStart
		if thisFrameMS < p.frameMS {
			p.debt += (p.frameMS - thisFrameMS) * 0.1
		} else {
			p.debt -= thisFrameMS - p.frameMS
		}
		p.debt *= 0.95

		if !presented {
			p.wait(targetMS - currentAudioMS)
		}
	}
}

// maybeQueueNext enqueues a preload request for the frame following i if
// its slot is currently EMPTY. While the window seek primed is still
// being presented, that slot already holds a pending or decoded buffer,
// so this is a no-op; once that window is used up, this is the only
// place later frames are queued, one frame ahead of the one just drawn
// or dropped.
func (p *Presenter) maybeQueueNext(i int) {
	next := i + 1
	if next < p.numFrames && p.pool.State(next%p.numBuffers) == slotEmpty {
		p.ring.Push(next)
	}
}

// drainSeek atomically consumes any pending seek request.
func (p *Presenter) drainSeek() (int, bool) {
	t := p.seekReq.Swap(-1)
	if t < 0 {
		return 0, false
	}
	return int(t), true
}

// currentAudioTimeMS derives the current media-time position from the
// audio byte counter. Anchoring on bytes actually delivered to the DSP
// avoids drift between the CPU timer and the DSP clock on hardware where
// those domains differ.
func (p *Presenter) currentAudioTimeMS() float64 {
	if p.bytesPerMS <= 0 {
		return p.audioStartMS
	}
	return p.audioStartMS + float64(p.pump.BytesRead())/p.bytesPerMS
}

// wait sleeps, yields, or spins depending on how far ahead of the audio
// clock the next scheduled frame is.
func (p *Presenter) wait(waitMS float64) {
	switch {
	case waitMS > sleepThresholdMS:
		time.Sleep(time.Duration(waitMS-sleepSlackMS) * time.Millisecond)
	case waitMS > yieldThresholdMS:
		runtime.Gosched()
	default:
		// Spin: the next frame is imminent: consuming a full OS sleep
		// quantum here would overshoot it.
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
