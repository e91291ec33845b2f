/*
NAME
  config.go

DESCRIPTION
  config.go defines pack.Config, the packer's input parameters, validated
  once before any output is written.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package pack

import (
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/codec/frame"
	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

// maxProbeFrames bounds the frame-discovery probe so a misconfigured
// pattern that never misses can't loop forever.
const maxProbeFrames = 100000

// Config holds the packer's inputs.
type Config struct {
	// OutputPath is where the container is written.
	OutputPath string

	// FrameType selects the video payload family.
	FrameType dcmv.FrameType

	// Width and Height are the frame dimensions in pixels; both must be
	// positive multiples of 16.
	Width, Height uint16

	// FrameRate is the integral video frame rate, written to the
	// container's float32 frame_rate field.
	FrameRate int

	// SampleRate is the audio sample rate in Hz.
	SampleRate uint16

	// Channels is 1 (mono) or 2 (stereo).
	Channels uint16

	// FramePattern is a printf-style pattern with a single integer
	// substitution for the zero-based frame index, e.g. "frame%04d.dtex".
	FramePattern string

	// AudioPath is the source audio file, optionally DcAF-prefixed.
	AudioPath string

	// Codec compresses each frame payload. Defaults to the lz4
	// implementation if nil.
	Codec frame.Codec

	// Logger receives packer progress and diagnostics. Defaults to a
	// discarding logger if nil.
	Logger logging.Logger
}

// Validate checks that Config's required fields are present and sane.
func (c Config) Validate() error {
	switch {
	case c.OutputPath == "":
		return fmt.Errorf("pack: output path is required")
	case c.Width == 0 || c.Width%16 != 0:
		return fmt.Errorf("pack: width %d is not a positive multiple of 16", c.Width)
	case c.Height == 0 || c.Height%16 != 0:
		return fmt.Errorf("pack: height %d is not a positive multiple of 16", c.Height)
	case c.FrameRate <= 0:
		return fmt.Errorf("pack: frame rate must be positive")
	case c.SampleRate == 0:
		return fmt.Errorf("pack: sample rate must be positive")
	case c.Channels != 1 && c.Channels != 2:
		return fmt.Errorf("pack: channels must be 1 or 2, got %d", c.Channels)
	case c.FramePattern == "":
		return fmt.Errorf("pack: frame pattern is required")
	case c.AudioPath == "":
		return fmt.Errorf("pack: audio path is required")
	case c.FrameType != dcmv.FrameVQPaletted && c.FrameType != dcmv.FramePlanarMacroblock:
		return fmt.Errorf("pack: unrecognised frame type %d", c.FrameType)
	}
	return nil
}
