/*
NAME
  dcmvpack

DESCRIPTION
  dcmvpack is the packer CLI: it takes a frame pattern and an audio file
  and writes a DCMV container. Plain stdlib flags rather than a
  subcommand framework, since this tool has one job and a flat set of
  parameters.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Command dcmvpack packs a sequence of texture frames and an audio track
// into a single DCMV container.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/pack"
)

const (
	logVerbosity = logging.Info
	logSuppress  = false
)

func main() {
	var (
		out        = flag.String("out", "movie.dcmv", "output container path")
		frameType  = flag.Int("frame-type", 0, "0 = VQ-paletted, 1 = planar-macroblock")
		width      = flag.Int("width", 0, "frame width in pixels (multiple of 16)")
		height     = flag.Int("height", 0, "frame height in pixels (multiple of 16)")
		frameRate  = flag.Int("frame-rate", 30, "integral video frame rate")
		sampleRate = flag.Int("sample-rate", 22050, "audio sample rate in Hz")
		channels   = flag.Int("channels", 1, "audio channel count, 1 or 2")
		pattern    = flag.String("frames", "", "printf-style frame path pattern, e.g. frame%04d.dtex")
		audio      = flag.String("audio", "", "source audio file, optionally DcAF-prefixed")
		verbose    = flag.Bool("v", false, "debug-level logging")
	)
	flag.Parse()

	level := int8(logVerbosity)
	if *verbose {
		level = logging.Debug
	}
	log := logging.New(level, os.Stderr, logSuppress)

	if *pattern == "" || *audio == "" {
		log.Fatal("both -frames and -audio are required")
	}

	cfg := pack.Config{
		OutputPath:   *out,
		FrameType:    dcmv.FrameType(*frameType),
		Width:        uint16(*width),
		Height:       uint16(*height),
		FrameRate:    *frameRate,
		SampleRate:   uint16(*sampleRate),
		Channels:     uint16(*channels),
		FramePattern: *pattern,
		AudioPath:    *audio,
		Logger:       log,
	}

	packer, err := pack.New(cfg)
	if err != nil {
		log.Fatal("invalid packer configuration", "error", err)
	}
	if err := packer.Pack(); err != nil {
		log.Fatal("pack failed", "error", err)
	}

	info, err := os.Stat(*out)
	if err != nil {
		log.Fatal("pack succeeded but output is unreadable", "error", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, info.Size())
}
