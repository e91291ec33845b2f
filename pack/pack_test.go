/*
NAME
  pack_test.go

DESCRIPTION
  pack_test.go exercises the packer end to end against synthetic inputs:
  header fields, offset-table shape, payload round-trips, audio-region
  fidelity, and failure handling.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package pack

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamcast-fmv/dcmv/codec/frame/identity"
	lz4codec "github.com/dreamcast-fmv/dcmv/codec/frame/lz4"
	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

// buildInputs writes numFrames synthetic DcTx-headed frames and a DcAF
// audio file under dir, returning the frame pattern and audio path.
func buildInputs(t *testing.T, dir string, numFrames, frameSize int) (pattern, audioPath string) {
	t.Helper()
	pattern = filepath.Join(dir, "frame%03d.dtx")
	for i := 0; i < numFrames; i++ {
		fn := fmt.Sprintf(pattern, i)
		payload := frameFixturePayload(frameSize, i)
		if err := writeDcTx(fn, payload); err != nil {
			t.Fatalf("writing frame %d: %v", i, err)
		}
	}
	audioPath = filepath.Join(dir, "audio.adpcm")
	if err := writeSilentDcAFAudio(audioPath, 48000); err != nil {
		t.Fatalf("writing audio: %v", err)
	}
	return pattern, audioPath
}

// frameFixturePayload returns a deterministic but non-constant payload so
// that frames differ and compression ratios vary a little.
func frameFixturePayload(n, idx int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte((i*31 + idx*17) % 256)
	}
	return buf
}

func writeDcTx(path string, payload []byte) error {
	head := make([]byte, 32) // headerBlocks=0 -> skip = (0+1)*32 = 32.
	copy(head, "DcTx")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(head); err != nil {
		return err
	}
	_, err = f.Write(payload)
	return err
}

func writeSilentDcAFAudio(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	prefix := make([]byte, 64)
	copy(prefix, "DcAF")
	if _, err := f.Write(prefix); err != nil {
		return err
	}
	_, err = f.Write(make([]byte, n))
	return err
}

func baseConfig(dir string, pattern, audioPath string) Config {
	return Config{
		OutputPath:   filepath.Join(dir, "out.dcmv"),
		FrameType:    dcmv.FrameVQPaletted,
		Width:        64,
		Height:       64,
		FrameRate:    24,
		SampleRate:   32000,
		Channels:     1,
		FramePattern: pattern,
		AudioPath:    audioPath,
	}
}

// TestPackHeaderAndOffsets checks header fields and offset table shape
// after a successful pack.
func TestPackHeaderAndOffsets(t *testing.T) {
	dir := t.TempDir()
	pattern, audioPath := buildInputs(t, dir, 100, 4096)

	cfg := baseConfig(dir, pattern, audioPath)
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	r, err := dcmv.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	h := r.Header()
	if h.FrameType != dcmv.FrameVQPaletted {
		t.Errorf("frame type = %v, want %v", h.FrameType, dcmv.FrameVQPaletted)
	}
	if h.Width != 64 || h.Height != 64 {
		t.Errorf("dims = %dx%d, want 64x64", h.Width, h.Height)
	}
	if h.FrameRate != 24 {
		t.Errorf("frame rate = %v, want 24", h.FrameRate)
	}
	if h.SampleRate != 32000 || h.Channels != 1 {
		t.Errorf("audio params = %d Hz, %d ch, want 32000 Hz, 1 ch", h.SampleRate, h.Channels)
	}
	if h.NumFrames != 100 {
		t.Errorf("num frames = %d, want 100", h.NumFrames)
	}
	if h.FrameSize != 4096 {
		t.Errorf("frame size = %d, want 4096", h.FrameSize)
	}
	if r.NumFrames() != 100 {
		t.Errorf("NumFrames() = %d, want 100", r.NumFrames())
	}

	// Offsets strictly increasing, sentinel == audio_offset.
	var prev int64 = -1
	for i := 0; i < r.NumFrames(); i++ {
		off, length := r.ByteRange(i)
		if off <= prev {
			t.Fatalf("offset[%d] = %d not strictly greater than previous %d", i, off, prev)
		}
		if length <= 0 {
			t.Fatalf("frame %d has non-positive length %d", i, length)
		}
		prev = off
	}
	if got, want := r.AudioRegionStart(), int64(h.AudioOffset); got != want {
		t.Errorf("audio region start = %d, want %d", got, want)
	}
}

// TestPackRoundTripIdentityCodec checks that with the identity codec,
// reading frame i back yields the original payload byte for byte.
func TestPackRoundTripIdentityCodec(t *testing.T) {
	dir := t.TempDir()
	const numFrames, frameSize = 10, 2048
	pattern, audioPath := buildInputs(t, dir, numFrames, frameSize)

	cfg := baseConfig(dir, pattern, audioPath)
	cfg.Codec = identity.New()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	r, err := dcmv.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f, err := r.OpenHandle()
	if err != nil {
		t.Fatalf("OpenHandle: %v", err)
	}
	defer f.Close()

	for i := 0; i < numFrames; i++ {
		off, length := r.ByteRange(i)
		buf := make([]byte, length)
		if _, err := f.ReadAt(buf, off); err != nil {
			t.Fatalf("ReadAt frame %d: %v", i, err)
		}
		want := frameFixturePayload(frameSize, i)
		if !bytes.Equal(buf, want) {
			t.Errorf("frame %d does not round-trip byte for byte", i)
		}
	}
}

// TestPackAudioRegionMatchesInput checks that bytes from audio_offset to
// EOF equal the source audio with its DcAF prefix removed.
func TestPackAudioRegionMatchesInput(t *testing.T) {
	dir := t.TempDir()
	pattern, audioPath := buildInputs(t, dir, 5, 512)

	cfg := baseConfig(dir, pattern, audioPath)
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	out, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	r, err := dcmv.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	gotAudio := out[r.AudioRegionStart():]

	wantAudio, err := os.ReadFile(audioPath)
	if err != nil {
		t.Fatalf("ReadFile audio: %v", err)
	}
	wantAudio = wantAudio[64:] // DcAF prefix stripped.

	if !bytes.Equal(gotAudio, wantAudio) {
		t.Errorf("audio region (%d bytes) does not match stripped input audio (%d bytes)", len(gotAudio), len(wantAudio))
	}
}

// TestPackUnprefixedAudioPassesThrough packs with an audio file that has
// no DcAF prefix; the audio region must equal the file byte for byte.
func TestPackUnprefixedAudioPassesThrough(t *testing.T) {
	dir := t.TempDir()
	pattern, _ := buildInputs(t, dir, 3, 256)

	audioPath := filepath.Join(dir, "raw.adpcm")
	raw := frameFixturePayload(1000, 99)
	if err := os.WriteFile(audioPath, raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := baseConfig(dir, pattern, audioPath)
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	out, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	r, err := dcmv.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := out[r.AudioRegionStart():]; !bytes.Equal(got, raw) {
		t.Errorf("audio region (%d bytes) does not match unprefixed input (%d bytes)", len(got), len(raw))
	}
}

// TestPackNoFramesFails checks that a missing frame 0 is a fatal
// no-frames-found error and leaves no output behind.
func TestPackNoFramesFails(t *testing.T) {
	dir := t.TempDir()
	_, audioPath := buildInputs(t, dir, 0, 0)

	cfg := baseConfig(dir, filepath.Join(dir, "missing%03d.dtx"), audioPath)
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = p.Pack()
	if err == nil {
		t.Fatal("expected an error for zero discovered frames")
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Errorf("output file should not exist after a failed pack")
	}
}

// TestPackMaxCompressedSizeBound checks that max_compressed_size is at
// least the largest individual frame length.
func TestPackMaxCompressedSizeBound(t *testing.T) {
	dir := t.TempDir()
	pattern, audioPath := buildInputs(t, dir, 30, 8192)

	cfg := baseConfig(dir, pattern, audioPath)
	cfg.Codec = lz4codec.New()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Pack(); err != nil {
		t.Fatalf("Pack: %v", err)
	}

	r, err := dcmv.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	h := r.Header()
	for i := 0; i < r.NumFrames(); i++ {
		_, length := r.ByteRange(i)
		if uint32(length) > h.MaxCompressedSize {
			t.Fatalf("frame %d length %d exceeds max_compressed_size %d", i, length, h.MaxCompressedSize)
		}
	}
}

// TestPackRandomFrameCounts is a lightweight property test over a
// handful of random frame counts and sizes, checking the offset-table
// and max-compressed-size invariants each time.
func TestPackRandomFrameCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 8; trial++ {
		numFrames := 1 + rng.Intn(40)
		frameSize := 64 + rng.Intn(4096)

		dir := t.TempDir()
		pattern, audioPath := buildInputs(t, dir, numFrames, frameSize)
		cfg := baseConfig(dir, pattern, audioPath)
		p, err := New(cfg)
		if err != nil {
			t.Fatalf("trial %d: New: %v", trial, err)
		}
		if err := p.Pack(); err != nil {
			t.Fatalf("trial %d: Pack: %v", trial, err)
		}

		r, err := dcmv.Open(cfg.OutputPath)
		if err != nil {
			t.Fatalf("trial %d: Open: %v", trial, err)
		}
		h := r.Header()
		var prev int64 = -1
		var max int64
		for i := 0; i < r.NumFrames(); i++ {
			off, length := r.ByteRange(i)
			if off <= prev {
				t.Fatalf("trial %d: offsets not increasing at frame %d", trial, i)
			}
			prev = off
			if length > max {
				max = length
			}
		}
		if int64(h.MaxCompressedSize) < max {
			t.Fatalf("trial %d: max_compressed_size %d < actual max %d", trial, h.MaxCompressedSize, max)
		}
		if r.AudioRegionStart() != int64(h.AudioOffset) {
			t.Fatalf("trial %d: audio region start %d != header audio_offset %d", trial, r.AudioRegionStart(), h.AudioOffset)
		}
	}
}
