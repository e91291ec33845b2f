/*
NAME
  ring.go

DESCRIPTION
  ring.go implements the preload ring: a bounded single-producer/
  single-consumer queue of frame indices. The presenter is the sole
  producer (it enqueues preload requests); the decode worker is the sole
  consumer. Capacity equals the buffer pool size, since there is never a
  reason to have more preload requests outstanding than there are
  buffers to hold them.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import "sync/atomic"

// Ring is a bounded SPSC queue of frame indices. All methods assume
// single-producer/single-consumer discipline: Push must only ever be
// called from the presenter goroutine, Pop only from the worker
// goroutine.
type Ring struct {
	buf  []int32
	head uint64 // atomic; producer-owned.
	tail uint64 // atomic; consumer-owned.
}

// NewRing returns a Ring with room for capacity entries.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]int32, capacity)}
}

// Len returns the ring's capacity.
func (r *Ring) Len() int { return len(r.buf) }

// Push enqueues idx, returning false if the ring is full. The index is
// written before head is advanced (release), so Pop's acquire read of
// head is guaranteed to see the write.
func (r *Ring) Push(idx int) bool {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if head-tail >= uint64(len(r.buf)) {
		return false
	}
	r.buf[head%uint64(len(r.buf))] = int32(idx)
	atomic.StoreUint64(&r.head, head+1)
	return true
}

// Pop dequeues the oldest index, returning false if the ring is empty.
// tail is advanced only after the index has been read.
func (r *Ring) Pop() (int, bool) {
	tail := atomic.LoadUint64(&r.tail)
	head := atomic.LoadUint64(&r.head)
	if tail >= head {
		return 0, false
	}
	idx := r.buf[tail%uint64(len(r.buf))]
	atomic.StoreUint64(&r.tail, tail+1)
	return int(idx), true
}

// Empty reports whether the ring currently has nothing queued.
func (r *Ring) Empty() bool {
	return atomic.LoadUint64(&r.tail) >= atomic.LoadUint64(&r.head)
}

// Reset returns the ring to its initial empty state. Only safe to call
// when the presenter and worker are both quiesced with respect to the
// ring, as during seek.
func (r *Ring) Reset() {
	atomic.StoreUint64(&r.head, 0)
	atomic.StoreUint64(&r.tail, 0)
}
