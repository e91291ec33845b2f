/*
NAME
  pool.go

DESCRIPTION
  pool.go implements the frame buffer pool: a fixed number of fixed-size
  byte slices, each with an atomic state machine EMPTY -> LOADING ->
  READY -> EMPTY. Only the decode worker creates LOADING/READY; EMPTY is
  created by the presenter (consuming a frame, or ResetAll during seek)
  and by the worker only to return a LOADING slot it failed to decode.
  That split is kept by convention (TryClaim/MarkReady are called by
  the worker, MarkEmpty mostly by the presenter) since Go has no way to
  restrict a method to a single goroutine at compile time.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import "sync/atomic"

// slotState is a buffer slot's position in the EMPTY/LOADING/READY state
// machine.
type slotState int32

const (
	slotEmpty slotState = iota
	slotLoading
	slotReady
)

func (s slotState) String() string {
	switch s {
	case slotEmpty:
		return "EMPTY"
	case slotLoading:
		return "LOADING"
	case slotReady:
		return "READY"
	default:
		return "INVALID"
	}
}

// Pool is the fixed-size set of frame buffers the decode worker fills
// and the presenter drains. All buffers are allocated once, at
// construction, and live for the Pool's lifetime.
type Pool struct {
	buffers   [][]byte
	states    []int32 // atomic, one slotState per buffer.
	frameSize int
}

// NewPool allocates numBuffers buffers of frameSize bytes each, all
// starting EMPTY.
func NewPool(numBuffers, frameSize int) *Pool {
	p := &Pool{
		buffers:   make([][]byte, numBuffers),
		states:    make([]int32, numBuffers),
		frameSize: frameSize,
	}
	for i := range p.buffers {
		p.buffers[i] = make([]byte, frameSize)
	}
	return p
}

// NumBuffers returns the number of buffer slots in the pool.
func (p *Pool) NumBuffers() int { return len(p.buffers) }

// FrameSize returns the fixed per-frame decompressed size.
func (p *Pool) FrameSize() int { return p.frameSize }

// Buffer returns the byte slice backing slot, for the worker to
// decompress into (only while it holds slotLoading) or the presenter to
// read from (only while it observes slotReady).
func (p *Pool) Buffer(slot int) []byte { return p.buffers[slot] }

// State loads slot's current state with acquire semantics, so that a
// caller observing slotReady also observes every write the worker made
// to Buffer(slot) before the transition.
func (p *Pool) State(slot int) slotState {
	return slotState(atomic.LoadInt32(&p.states[slot]))
}

// TryClaim attempts the EMPTY -> LOADING transition for slot, returning
// false if the slot was not EMPTY.
func (p *Pool) TryClaim(slot int) bool {
	return atomic.CompareAndSwapInt32(&p.states[slot], int32(slotEmpty), int32(slotLoading))
}

// MarkReady transitions slot from LOADING to READY with release
// semantics: every write to Buffer(slot) made before this call happens
// before a later State(slot) == slotReady is observed.
func (p *Pool) MarkReady(slot int) {
	atomic.StoreInt32(&p.states[slot], int32(slotReady))
}

// MarkEmpty transitions slot back to EMPTY, whether because the
// presenter consumed a READY buffer or because the worker failed to
// decode a LOADING one.
func (p *Pool) MarkEmpty(slot int) {
	atomic.StoreInt32(&p.states[slot], int32(slotEmpty))
}

// ResetAll forces every slot back to EMPTY, used by seek to discard any
// in-flight or stale buffered frames.
func (p *Pool) ResetAll() {
	for i := range p.states {
		atomic.StoreInt32(&p.states[i], int32(slotEmpty))
	}
}
