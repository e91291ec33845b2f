/*
NAME
  player_test.go

DESCRIPTION
  player_test.go exercises the Player end to end against a small
  synthetic container: full playback to completion, seek within the
  running loop, and tolerance of a damaged offset table entry
  (stall-then-skip rather than deadlock).

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/device"
	"github.com/dreamcast-fmv/dcmv/internal/fixture"
	"github.com/dreamcast-fmv/dcmv/pack"
)

const (
	testNumFrames  = 40
	testFrameSize  = 256
	testFrameRate  = 30
	testSampleRate = 8000
)

// buildTestContainer packs a small synthetic container under t.TempDir
// using internal/fixture inputs and the packer's default lz4 codec, the
// same codec the player defaults to.
func buildTestContainer(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	pattern := filepath.Join(dir, "frame%03d.dtex")
	for i := 0; i < testNumFrames; i++ {
		path := fmt.Sprintf(pattern, i)
		payload := fixture.SineFrame(testFrameSize, i)
		if err := fixture.WriteFixedHeaderFrame(path, "DTEX", payload); err != nil {
			t.Fatalf("writing frame %d: %v", i, err)
		}
	}

	audioPath := filepath.Join(dir, "audio.adpcm")
	if err := fixture.WriteADPCMAudio(audioPath, testSampleRate, 1, 2.0, true); err != nil {
		t.Fatalf("writing audio: %v", err)
	}

	outPath := filepath.Join(dir, "movie.dcmv")
	packer, err := pack.New(pack.Config{
		OutputPath:   outPath,
		FrameType:    dcmv.FrameVQPaletted,
		Width:        16,
		Height:       16,
		FrameRate:    testFrameRate,
		SampleRate:   testSampleRate,
		Channels:     1,
		FramePattern: pattern,
		AudioPath:    audioPath,
	})
	if err != nil {
		t.Fatalf("pack.New: %v", err)
	}
	if err := packer.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	return outPath
}

// testConfig paces the null audio sink at 8 bytes per worker poll.
// With the worker's ~1ms idle sleep that advances the A/V clock at
// roughly twice real time, fast enough to finish quickly but slow
// enough that the decode worker stays ahead of the presenter.
func testConfig() Config {
	return Config{
		NumBuffers:  4,
		StallLimit:  3,
		TextureSink: device.NewNullTextureSink(),
		AudioSink:   device.NewNullAudioSink(8),
		Clock:       NewVirtualClock(),
	}
}

func TestPlayerPlaysToCompletion(t *testing.T) {
	path := buildTestContainer(t)

	p, err := Open(path, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	p.Start()

	done := make(chan struct {
		stats Stats
		err   error
	})
	go func() {
		s, err := p.Run()
		done <- struct {
			stats Stats
			err   error
		}{s, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Run: %v", res.err)
		}
		if res.stats.Presented+res.stats.Dropped != testNumFrames {
			t.Errorf("presented+dropped = %d, want %d", res.stats.Presented+res.stats.Dropped, testNumFrames)
		}
		if res.stats.Dropped > 5 {
			t.Errorf("dropped %d frames, want <= 5 on a small lz4-codec test container", res.stats.Dropped)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("playback did not complete within timeout")
	}
}

func TestPlayerSeekStaysWithinBufferWindow(t *testing.T) {
	path := buildTestContainer(t)

	cfg := testConfig()
	p, err := Open(path, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	p.Start()

	runErr := make(chan error, 1)
	go func() {
		_, err := p.Run()
		runErr <- err
	}()

	// Give the presenter a moment to cue up and start advancing before
	// issuing a seek.
	time.Sleep(20 * time.Millisecond)

	target := 20
	p.RequestSeek(target)

	time.Sleep(50 * time.Millisecond)

	frame := p.CurrentFrame()
	if frame < target || frame >= target+cfg.NumBuffers+1 {
		t.Errorf("after seek to %d, current frame = %d, want in [%d, %d)", target, frame, target, target+cfg.NumBuffers+1)
	}

	p.RequestExit()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("player did not exit after RequestExit")
	}
}

func TestPlayerToleratesDamagedOffsetEntry(t *testing.T) {
	path := buildTestContainer(t)
	damageOffsetEntry(t, path, 10)

	p, err := Open(path, testConfig())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	p.Start()
	done := make(chan error, 1)
	go func() {
		_, err := p.Run()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("playback with a damaged offset entry did not complete (possible deadlock)")
	}
}

func openRW(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

// damageOffsetEntry overwrites offset table entry i with entry i+1's
// value, producing a zero-length frame i that the codec must fail to
// decompress.
func damageOffsetEntry(t *testing.T, path string, i int) {
	t.Helper()
	f, err := openRW(path)
	if err != nil {
		t.Fatalf("opening container for damage: %v", err)
	}
	defer f.Close()

	const headerSize = dcmv.HeaderSize
	entryPos := int64(headerSize + i*4)
	nextPos := int64(headerSize + (i+1)*4)

	buf := make([]byte, 4)
	if _, err := f.ReadAt(buf, nextPos); err != nil {
		t.Fatalf("reading offset entry %d: %v", i+1, err)
	}
	if _, err := f.WriteAt(buf, entryPos); err != nil {
		t.Fatalf("writing offset entry %d: %v", i, err)
	}
}
