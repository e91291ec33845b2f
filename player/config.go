/*
NAME
  config.go

DESCRIPTION
  config.go defines player.Config, the runtime's tunables and
  collaborators, following the same validate-before-use pattern as
  pack.Config.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package player implements the DCMV playback engine: a concurrent
// pipeline of a decode worker, an audio pump, and a presentation loop
// driving audio/video synchronisation, frame skipping, and seek, over a
// container opened with container/dcmv.
package player

import (
	"fmt"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/codec/frame"
	"github.com/dreamcast-fmv/dcmv/device"
)

const (
	// DefaultNumBuffers is the default frame buffer pool size.
	DefaultNumBuffers = 8

	// DefaultStallLimit is the number of consecutive stalls on the same
	// frame the presenter tolerates before advancing anyway.
	DefaultStallLimit = 3

	// DefaultSeekStep is the "big step" seek size in frames.
	DefaultSeekStep = 500
)

// Config holds the player's tunables and collaborators.
type Config struct {
	// NumBuffers is the frame buffer pool size, >= 2. Zero selects
	// DefaultNumBuffers.
	NumBuffers int

	// StallLimit is the number of consecutive presentation iterations a
	// frame may be not-READY before the presenter advances past it
	// anyway. Zero selects DefaultStallLimit.
	StallLimit int

	// SeekStep is the frame delta RequestSeekForward/Backward apply.
	// Zero selects DefaultSeekStep.
	SeekStep int

	// Codec decompresses frame payloads. Defaults to the lz4
	// implementation if nil.
	Codec frame.Codec

	// TextureSink receives decoded frames for display.
	TextureSink device.TextureSink

	// AudioSink drives ADPCM audio playback.
	AudioSink device.AudioSink

	// Clock supplies the millisecond timer the presenter uses to measure
	// each loop iteration; the A/V timeline comes from the audio byte
	// counter. Defaults to a real monotonic clock if nil.
	Clock Clock

	// Logger receives player lifecycle and diagnostic events. Defaults
	// to a discarding logger if nil.
	Logger logging.Logger
}

// Validate checks that Config's required collaborators are present and
// its tunables are sane, filling in defaults for zero-valued tunables as
// a side effect.
func (c *Config) Validate() error {
	if c.NumBuffers == 0 {
		c.NumBuffers = DefaultNumBuffers
	}
	if c.StallLimit == 0 {
		c.StallLimit = DefaultStallLimit
	}
	if c.SeekStep == 0 {
		c.SeekStep = DefaultSeekStep
	}
	switch {
	case c.NumBuffers < 2:
		return fmt.Errorf("player: NumBuffers must be >= 2, got %d", c.NumBuffers)
	case c.StallLimit < 1:
		return fmt.Errorf("player: StallLimit must be >= 1, got %d", c.StallLimit)
	case c.SeekStep < 1:
		return fmt.Errorf("player: SeekStep must be >= 1, got %d", c.SeekStep)
	case c.TextureSink == nil:
		return fmt.Errorf("player: TextureSink is required")
	case c.AudioSink == nil:
		return fmt.Errorf("player: AudioSink is required")
	}
	return nil
}
