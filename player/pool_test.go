/*
NAME
  pool_test.go

DESCRIPTION
  pool_test.go exercises the buffer pool's EMPTY/LOADING/READY state
  machine: legal transitions, claim conflicts, and the seek-time reset.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import "testing"

func TestPoolInitialStateIsEmpty(t *testing.T) {
	p := NewPool(4, 16)
	for i := 0; i < p.NumBuffers(); i++ {
		if got := p.State(i); got != slotEmpty {
			t.Errorf("slot %d: got %v, want EMPTY", i, got)
		}
	}
}

func TestPoolClaimTransitions(t *testing.T) {
	p := NewPool(2, 8)

	if !p.TryClaim(0) {
		t.Fatal("TryClaim on EMPTY slot should succeed")
	}
	if got := p.State(0); got != slotLoading {
		t.Fatalf("after TryClaim: got %v, want LOADING", got)
	}
	if p.TryClaim(0) {
		t.Fatal("TryClaim on LOADING slot should fail")
	}

	p.MarkReady(0)
	if got := p.State(0); got != slotReady {
		t.Fatalf("after MarkReady: got %v, want READY", got)
	}
	if p.TryClaim(0) {
		t.Fatal("TryClaim on READY slot should fail")
	}

	p.MarkEmpty(0)
	if got := p.State(0); got != slotEmpty {
		t.Fatalf("after MarkEmpty: got %v, want EMPTY", got)
	}
	if !p.TryClaim(0) {
		t.Fatal("TryClaim should succeed again after MarkEmpty")
	}
}

func TestPoolResetAll(t *testing.T) {
	p := NewPool(3, 8)
	p.TryClaim(0)
	p.TryClaim(1)
	p.MarkReady(1)

	p.ResetAll()

	for i := 0; i < p.NumBuffers(); i++ {
		if got := p.State(i); got != slotEmpty {
			t.Errorf("slot %d after ResetAll: got %v, want EMPTY", i, got)
		}
	}
}

func TestPoolBufferSizing(t *testing.T) {
	p := NewPool(2, 128)
	if got := p.FrameSize(); got != 128 {
		t.Errorf("FrameSize() = %d, want 128", got)
	}
	if got := len(p.Buffer(0)); got != 128 {
		t.Errorf("len(Buffer(0)) = %d, want 128", got)
	}
}
