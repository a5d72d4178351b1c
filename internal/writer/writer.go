// Package writer pushes buffered snapshots to a remote line-protocol sink
// over HTTP, backing off on failure and flushing on shutdown.
package writer

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"renogyfleet/internal/buffer"
	"renogyfleet/internal/snapshot"
	"renogyfleet/pkg/logger"
)

const (
	tickInterval    = time.Second
	initialBackoff  = time.Second
	maxBackoff      = 60 * time.Second
	shutdownFlushTimeout = 30 * time.Second
)

// Writer drains buffer on a ticker and POSTs rendered line-protocol batches
// to a remote sink, requeuing the batch at the buffer's head on failure and
// doubling its backoff, capped at maxBackoff and reset to initialBackoff on
// the next success.
type Writer struct {
	url    string
	buf    *buffer.Buffer
	client *http.Client
	log    logger.Logger

	backoff time.Duration
}

// New builds a Writer posting to remoteURL's /write endpoint.
func New(remoteURL string, buf *buffer.Buffer) *Writer {
	return &Writer{
		url:     remoteURL,
		buf:     buf,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.With(logger.String("component", "remote_writer")),
		backoff: initialBackoff,
	}
}

// Run drains the buffer on a fixed tick until ctx is cancelled, then
// performs one final flush attempt bounded by shutdownFlushTimeout.
func (w *Writer) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flushOnShutdown()
			return
		case <-ticker.C:
			w.drainAndWrite(ctx)
		}
	}
}

func (w *Writer) drainAndWrite(ctx context.Context) {
	if w.buf.IsEmpty() {
		return
	}
	batch := w.buf.DrainAll()
	if err := w.write(ctx, batch); err != nil {
		w.log.Warn("failed to push batch to remote sink, requeuing",
			logger.Err(err), logger.Int("batch_size", len(batch)), logger.Duration("backoff", w.backoff))
		w.buf.ExtendFront(batch)
		w.sleepBackoff(ctx)
		return
	}
	w.backoff = initialBackoff
}

func (w *Writer) sleepBackoff(ctx context.Context) {
	select {
	case <-time.After(w.backoff):
	case <-ctx.Done():
	}
	w.backoff *= 2
	if w.backoff > maxBackoff {
		w.backoff = maxBackoff
	}
}

func (w *Writer) write(ctx context.Context, batch []*snapshot.Snapshot) error {
	body, err := RenderBatch(batch)
	if err != nil {
		return fmt.Errorf("render line protocol: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url+"/write", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("remote sink returned status %d", resp.StatusCode)
	}
	return nil
}

func (w *Writer) flushOnShutdown() {
	if w.buf.IsEmpty() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer cancel()

	batch := w.buf.DrainAll()
	if err := w.write(ctx, batch); err != nil {
		w.log.Error("failed to flush buffered samples on shutdown", logger.Err(err), logger.Int("dropped", len(batch)))
	} else {
		w.log.Info("flushed buffered samples on shutdown", logger.Int("count", len(batch)))
	}
}
