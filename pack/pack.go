/*
NAME
  pack.go

DESCRIPTION
  pack.go implements the packer algorithm: frame discovery, per-frame
  texture header stripping, compression, and assembly of the
  header, offset table, frame payloads and audio region into a single
  container file. Any failure aborts the whole pack; the caller is left
  with no output file rather than a truncated one.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package pack implements the DCMV packer: it turns a sequence of
// pre-encoded GPU texture files plus one audio file into a single DCMV
// container, per the format's construction algorithm.
package pack

import (
	"fmt"
	"io"
	"os"

	lz4codec "github.com/dreamcast-fmv/dcmv/codec/frame/lz4"
	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/internal/nulllog"
	"github.com/dreamcast-fmv/dcmv/texture"
)

// Packer runs the packing algorithm for a fixed Config.
type Packer struct {
	cfg Config
}

// New validates cfg and returns a Packer, filling in a default codec and
// logger if the caller left them nil.
func New(cfg Config) (*Packer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pack: invalid config: %w", err)
	}
	if cfg.Codec == nil {
		cfg.Codec = lz4codec.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = nulllog.New()
	}
	return &Packer{cfg: cfg}, nil
}

// Pack runs the packing algorithm end to end. On any failure the
// partially-written output file is removed and a non-zero-exit-worthy
// error is returned; nothing is left half-written on disk.
func (p *Packer) Pack() (err error) {
	log := p.cfg.Logger

	frames, err := p.discoverFrames()
	if err != nil {
		return err
	}
	log.Info("discovered frames", "count", len(frames))

	skip, err := p.probeSkip(frames[0])
	if err != nil {
		return err
	}
	log.Debug("computed texture header skip", "skip", skip)

	frameSize, err := fileSize(frames[0])
	if err != nil {
		return err
	}
	frameSize -= int64(skip)
	if frameSize <= 0 {
		return fmt.Errorf("pack: frame 0 is smaller than its own header (size %d, skip %d)", frameSize+int64(skip), skip)
	}

	header := dcmv.Header{
		FrameType:  p.cfg.FrameType,
		Width:      p.cfg.Width,
		Height:     p.cfg.Height,
		FrameRate:  float32(p.cfg.FrameRate),
		SampleRate: p.cfg.SampleRate,
		Channels:   p.cfg.Channels,
		NumFrames:  uint32(len(frames)),
		FrameSize:  uint32(frameSize),
	}

	w, err := dcmv.NewWriter(p.cfg.OutputPath, header)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = w.Abort()
			_ = os.Remove(p.cfg.OutputPath)
		}
	}()

	raw := make([]byte, 0, frameSize+int64(skip))
	var compressed []byte
	for i, path := range frames {
		raw, err = readFileInto(raw[:0], path)
		if err != nil {
			return fmt.Errorf("pack: could not read frame %d (%s): %w", i, path, err)
		}
		if int64(len(raw))-int64(skip) != frameSize {
			return fmt.Errorf("pack: frame %d (%s) has size %d after skip %d, expected %d", i, path, int64(len(raw))-int64(skip), skip, frameSize)
		}

		compressed, err = p.cfg.Codec.Compress(compressed[:0], raw[skip:])
		if err != nil {
			return fmt.Errorf("pack: could not compress frame %d: %w", i, err)
		}
		if err := w.WriteFrame(compressed); err != nil {
			return err
		}
		log.Debug("packed frame", "index", i, "compressed_size", len(compressed))
	}

	audioFile, err := os.Open(p.cfg.AudioPath)
	if err != nil {
		return fmt.Errorf("pack: could not open audio input: %w", err)
	}
	defer audioFile.Close()

	stripped, err := stripAudioPrefix(audioFile)
	if err != nil {
		return err
	}
	if stripped {
		log.Debug("stripped DcAF audio header", "path", p.cfg.AudioPath)
	}

	n, err := w.WriteAudio(audioFile)
	if err != nil {
		return err
	}
	log.Debug("wrote audio region", "bytes", n)

	if err := w.Close(); err != nil {
		return err
	}
	log.Info("pack complete", "output", p.cfg.OutputPath, "frames", len(frames))
	return nil
}

// discoverFrames probes Config.FramePattern for frame 0, 1, 2, ... until
// the first missing file. It fails if zero frames are found.
func (p *Packer) discoverFrames() ([]string, error) {
	var paths []string
	for i := 0; i < maxProbeFrames; i++ {
		path := fmt.Sprintf(p.cfg.FramePattern, i)
		if _, err := os.Stat(path); err != nil {
			break
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("pack: no frames found matching pattern %q", p.cfg.FramePattern)
	}
	return paths, nil
}

// probeSkip determines the per-frame texture header skip from frame 0.
func (p *Packer) probeSkip(frame0 string) (int, error) {
	f, err := os.Open(frame0)
	if err != nil {
		return 0, fmt.Errorf("pack: could not open first frame: %w", err)
	}
	defer f.Close()

	head := make([]byte, 10)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return 0, fmt.Errorf("pack: could not read first frame header: %w", err)
	}

	_, skip, err := texture.Probe(p.cfg.FrameType, head[:n])
	if err != nil {
		return 0, fmt.Errorf("pack: %w", err)
	}
	return skip, nil
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("pack: could not stat %s: %w", path, err)
	}
	return fi.Size(), nil
}

func readFileInto(dst []byte, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if int64(cap(dst)) < fi.Size() {
		dst = make([]byte, 0, fi.Size())
	}
	dst = dst[:fi.Size()]
	_, err = io.ReadFull(f, dst)
	return dst, err
}
