/*
NAME
  snapshot.go

DESCRIPTION
  snapshot.go writes the texture sink's currently displayed framebuffer
  to a PPM file. Format conversion from the container's native frame
  type to displayable RGB already happened inside the sink, so this only
  needs a sink that can hand the pixels back.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dreamcast-fmv/dcmv/device"
)

// Snapshot writes the texture sink's currently displayed framebuffer to
// path as a binary (P6) PPM. It returns an error if the configured
// TextureSink does not implement device.Snapshotter.
func (p *Player) Snapshot(path string) error {
	snapper, ok := p.cfg.TextureSink.(device.Snapshotter)
	if !ok {
		return fmt.Errorf("player: texture sink %T does not support snapshots", p.cfg.TextureSink)
	}
	width, height, rgb, err := snapper.Snapshot()
	if err != nil {
		return fmt.Errorf("player: snapshot capture failed: %w", err)
	}
	if len(rgb) != width*height*3 {
		return fmt.Errorf("player: snapshot buffer is %d bytes, expected %d for %dx%d", len(rgb), width*height*3, width, height)
	}
	return writePPM(path, width, height, rgb)
}

func writePPM(path string, width, height int, rgb []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("player: could not create snapshot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	if _, err := w.Write(rgb); err != nil {
		return err
	}
	return w.Flush()
}
