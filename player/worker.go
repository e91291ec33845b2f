/*
NAME
  worker.go

DESCRIPTION
  worker.go implements the decode worker: the single background task
  that pulls preload requests from the ring, reads compressed frame
  bytes from its own video file handle, and decompresses them into the
  buffer pool. Exactly one worker exists per Player, so the ring has a
  single consumer.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

package player

import (
	"io"
	"os"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/dreamcast-fmv/dcmv/codec/frame"
	"github.com/dreamcast-fmv/dcmv/container/dcmv"
)

// workerIdleSleep is how long the worker sleeps when the ring is empty
// before checking again.
const workerIdleSleep = time.Millisecond

// worker is the decode worker's state. It is constructed once per Player
// and run on its own goroutine for the Player's lifetime.
type worker struct {
	reader *dcmv.Reader
	handle *os.File
	codec  frame.Codec
	pool   *Pool
	ring   *Ring
	logger logging.Logger

	scratch []byte

	// poll, if non-nil, is invoked once per loop iteration, letting the
	// worker also service the audio sink's poll hook between decodes.
	poll func()
}

// newWorker constructs a worker over handle, a file descriptor dedicated
// to video-region reads so the audio callback never moves its cursor.
func newWorker(reader *dcmv.Reader, handle *os.File, codec frame.Codec, pool *Pool, ring *Ring, logger logging.Logger, poll func()) *worker {
	return &worker{
		reader:  reader,
		handle:  handle,
		codec:   codec,
		pool:    pool,
		ring:    ring,
		logger:  logger,
		scratch: make([]byte, reader.Header().MaxCompressedSize),
		poll:    poll,
	}
}

// run executes the worker's loop until stop is closed. It is meant to be
// launched with `go w.run(stop)`.
func (w *worker) run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		if w.poll != nil {
			w.poll()
		}

		idx, ok := w.ring.Pop()
		if !ok {
			select {
			case <-stop:
				return
			case <-time.After(workerIdleSleep):
			}
			continue
		}

		w.decodeOne(idx)
	}
}

// decodeOne claims frame idx's slot, reads its compressed bytes, and
// decompresses them into the pool.
func (w *worker) decodeOne(idx int) {
	slot := idx % w.pool.NumBuffers()

	if !w.pool.TryClaim(slot) {
		// Slot is already LOADING or READY: another preload for the same
		// slot beat us to it, or the presenter hasn't drained it yet.
		// Log and drop the request.
		w.logger.Warning("decode worker: slot busy, dropping preload", "frame", idx, "slot", slot)
		return
	}

	offset, length := w.reader.ByteRange(idx)
	if length > int64(len(w.scratch)) {
		w.logger.Warning("decode worker: compressed frame exceeds max_compressed_size", "frame", idx, "length", length)
		w.pool.MarkEmpty(slot)
		return
	}
	compressed := w.scratch[:length]
	if _, err := w.handle.Seek(offset, io.SeekStart); err != nil {
		w.logger.Warning("decode worker: seek failed", "frame", idx, "error", err.Error())
		w.pool.MarkEmpty(slot)
		return
	}
	if _, err := io.ReadFull(w.handle, compressed); err != nil {
		w.logger.Warning("decode worker: short read of compressed frame", "frame", idx, "error", err.Error())
		w.pool.MarkEmpty(slot)
		return
	}

	if err := w.codec.Decompress(w.pool.Buffer(slot), compressed); err != nil {
		w.logger.Warning("decode worker: decompress failed", "frame", idx, "error", err.Error())
		w.pool.MarkEmpty(slot)
		return
	}

	w.pool.MarkReady(slot)
	w.logger.Debug("decode worker: frame ready", "frame", idx, "slot", slot)
}
