/*
NAME
  dcmvinfo

DESCRIPTION
  dcmvinfo is a human-facing inspector over container/dcmv.Reader,
  built with github.com/spf13/cobra: the bare command prints header
  metadata, the frames subcommand lists per-frame byte ranges.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Command dcmvinfo prints DCMV container metadata and per-frame offsets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

var rootCmd = &cobra.Command{
	Use:           "dcmvinfo <container>",
	Short:         "Inspect a DCMV container's header and frame layout.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd, args[0])
	},
}

var framesCmd = &cobra.Command{
	Use:   "frames <container>",
	Short: "List every frame's byte range in the container.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrames(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(framesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	r, err := dcmv.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	h := r.Header()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "path:               %s\n", path)
	fmt.Fprintf(out, "frame_type:         %s\n", h.FrameType)
	fmt.Fprintf(out, "dimensions:         %dx%d\n", h.Width, h.Height)
	fmt.Fprintf(out, "frame_rate:         %g fps\n", h.FrameRate)
	fmt.Fprintf(out, "audio:              %d Hz, %d channel(s)\n", h.SampleRate, h.Channels)
	fmt.Fprintf(out, "num_frames:         %d\n", h.NumFrames)
	fmt.Fprintf(out, "frame_size:         %d bytes (decompressed)\n", h.FrameSize)
	fmt.Fprintf(out, "max_compressed:     %d bytes\n", h.MaxCompressedSize)
	fmt.Fprintf(out, "audio_offset:       %d\n", h.AudioOffset)
	duration := float64(h.NumFrames) / float64(h.FrameRate)
	fmt.Fprintf(out, "duration:           %.2fs\n", duration)
	return nil
}

func runFrames(cmd *cobra.Command, path string) error {
	r, err := dcmv.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	out := cmd.OutOrStdout()
	for i := 0; i < r.NumFrames(); i++ {
		offset, length := r.ByteRange(i)
		fmt.Fprintf(out, "%6d  offset=%-10d length=%d\n", i, offset, length)
	}
	fmt.Fprintf(out, "audio region starts at %d\n", r.AudioRegionStart())
	return nil
}
