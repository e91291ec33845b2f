/*
NAME
  dcmvplay

DESCRIPTION
  dcmvplay plays a DCMV container on a developer's machine, wiring
  player.Player to the desktop device/otosink and device/glsink backends
  and mapping keyboard input onto the player's control surface (seek
  forward/back, snapshot, exit) since a developer's keyboard stands in
  for the target host's controller. Logging rotates via lumberjack so a
  long test-playback run doesn't grow one log file without bound.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Command dcmvplay plays a DCMV container in a desktop window.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/device/glsink"
	"github.com/dreamcast-fmv/dcmv/device/otosink"
	"github.com/dreamcast-fmv/dcmv/player"
)

// Logging configuration.
const (
	logPath      = "dcmvplay.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

// defaultContainerPath matches the fixed path the target host's player
// loads from its mount; -container overrides it for desktop development.
const defaultContainerPath = "movie.dcmv"

func main() {
	path := flag.String("container", defaultContainerPath, "DCMV container to play")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, fileLog, logSuppress)
	log.Info("starting dcmvplay", "container", *path)

	if err := run(*path, log); err != nil {
		log.Fatal("dcmvplay failed", "error", err.Error())
	}
}

func run(path string, log logging.Logger) error {
	// Peek the header before opening the Player: glsink needs the frame
	// dimensions to size its window and texture, and dcmv.Open holds no
	// file handle open once it returns, so this costs nothing extra.
	peek, err := dcmv.Open(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	h := peek.Header()

	video, err := glsink.New(int(h.Width), int(h.Height), "dcmvplay — "+path)
	if err != nil {
		return fmt.Errorf("opening display: %w", err)
	}
	defer video.Close()

	audio := otosink.New()

	p, err := player.Open(path, player.Config{Logger: log, AudioSink: audio, TextureSink: video})
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer p.Close()

	installControls(p, video, log)

	p.Start()
	go watchWindow(p, video)

	stats, err := p.Run()
	log.Info("playback finished", "presented", stats.Presented, "dropped", stats.Dropped)
	return err
}

// installControls binds the keyboard control surface: Right/Left for
// seek forward/back, S for snapshot, Escape/Q for exit.
func installControls(p *player.Player, video *glsink.Sink, log logging.Logger) {
	video.Window().SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyRight:
			p.RequestSeekForward()
		case glfw.KeyLeft:
			p.RequestSeekBackward()
		case glfw.KeyS:
			name := fmt.Sprintf("screenshot%d.ppm", p.CurrentFrame())
			if err := p.Snapshot(name); err != nil {
				log.Warning("snapshot failed", "error", err.Error())
			} else {
				log.Info("wrote snapshot", "path", name)
			}
		case glfw.KeyEscape, glfw.KeyQ:
			p.RequestExit()
		}
	})
}

// watchWindow translates the desktop window's own close button into
// EXIT, since a developer closing the window has no other way to signal
// the control surface.
func watchWindow(p *player.Player, video *glsink.Sink) {
	for !video.ShouldClose() {
		time.Sleep(100 * time.Millisecond)
	}
	p.RequestExit()
}
