/*
NAME
  ring_test.go

DESCRIPTION
  ring_test.go exercises the preload ring's SPSC semantics: ordering,
  wraparound, full/empty detection.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import "testing"

func TestRingPushPopOrder(t *testing.T) {
	r := NewRing(4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("Push(%d) failed unexpectedly", i)
		}
	}
	if r.Push(4) {
		t.Fatal("Push on a full ring should fail")
	}
	for i := 0; i < 4; i++ {
		got, ok := r.Pop()
		if !ok {
			t.Fatalf("Pop() %d: ok=false", i)
		}
		if got != i {
			t.Errorf("Pop() %d: got %d, want %d", i, got, i)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatal("Pop on an empty ring should fail")
	}
}

func TestRingWraparound(t *testing.T) {
	r := NewRing(3)
	r.Push(10)
	r.Push(11)
	r.Pop()
	r.Push(12)
	r.Push(13)

	var got []int
	for {
		v, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	want := []int{11, 12, 13}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRingEmptyReset(t *testing.T) {
	r := NewRing(2)
	if !r.Empty() {
		t.Fatal("new ring should be empty")
	}
	r.Push(1)
	if r.Empty() {
		t.Fatal("ring with one entry should not be empty")
	}
	r.Reset()
	if !r.Empty() {
		t.Fatal("ring should be empty after Reset")
	}
	if !r.Push(99) {
		t.Fatal("Push after Reset should succeed")
	}
	got, ok := r.Pop()
	if !ok || got != 99 {
		t.Fatalf("Pop after Reset = (%d, %v), want (99, true)", got, ok)
	}
}
