/*
NAME
  clock.go

DESCRIPTION
  clock.go defines the Clock capability the presentation loop uses to
  time each of its iterations for the sync debt, a real monotonic
  millisecond implementation, and a VirtualClock that only moves when a
  test moves it. The A/V timeline itself comes from the audio pump's
  byte counter, not from Clock. Hardware timer binding belongs in an
  adapter, never in the loop itself.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"sync"
	"time"
)

// Clock returns a monotonically increasing millisecond timestamp. The
// presenter never reads wall-clock time directly so that its sync logic
// can be exercised without real hardware or real elapsed time.
type Clock interface {
	NowMS() float64
}

// realClock implements Clock using the process's monotonic clock,
// standing in for a hardware-counter read on the target console.
type realClock struct {
	start time.Time
}

// NewRealClock returns a Clock anchored to the current time.
func NewRealClock() Clock {
	return &realClock{start: time.Now()}
}

func (c *realClock) NowMS() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// VirtualClock is a Clock whose value only advances when Advance is
// called, for deterministic tests of the presentation loop's timing
// logic.
type VirtualClock struct {
	mu  sync.Mutex
	now float64
}

// NewVirtualClock returns a VirtualClock starting at zero.
func NewVirtualClock() *VirtualClock { return &VirtualClock{} }

// NowMS implements Clock.
func (c *VirtualClock) NowMS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms milliseconds.
func (c *VirtualClock) Advance(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

// Set pins the clock to an absolute millisecond value.
func (c *VirtualClock) Set(ms float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ms
}

var (
	_ Clock = (*realClock)(nil)
	_ Clock = (*VirtualClock)(nil)
)
