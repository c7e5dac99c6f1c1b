// Package plugin speaks the launcher's plugin protocol: one JSON request per
// line on stdin, one JSON response per line on stdout.
package plugin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dshills/gobangs/internal/session"
)

// MaxLineBytes bounds a single request line
const MaxLineBytes = 1 << 20

// Handler consumes decoded requests
type Handler interface {
	Handle(ctx context.Context, req session.Request) (stop bool, err error)
}

// Writer is a session.Sink that writes one JSON line per response
type Writer struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// Compile-time check that Writer implements session.Sink.
var _ session.Sink = (*Writer)(nil)

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Send writes r and flushes so the launcher sees it immediately
func (w *Writer) Send(r session.Response) error {
	data, err := EncodeResponse(r)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write(data); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

type line struct {
	data []byte
	err  error
}

// Serve reads requests from r and hands them to h in order until Exit, end
// of input, or ctx is done. Malformed lines are logged and skipped.
func Serve(ctx context.Context, r io.Reader, h Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	lines := make(chan line)
	go readLines(ctx, r, lines)

	for {
		select {
		case <-ctx.Done():
			return nil

		case l, ok := <-lines:
			if !ok {
				logger.Debug("launcher closed input")
				return nil
			}
			if l.err != nil {
				return fmt.Errorf("failed to read request: %w", l.err)
			}

			if len(bytes.TrimSpace(l.data)) == 0 {
				continue
			}

			req, err := DecodeRequest(l.data)
			if err != nil {
				logger.Warn("dropping request", "error", err)
				continue
			}

			stop, err := h.Handle(ctx, req)
			if err != nil {
				return err
			}
			if stop {
				logger.Debug("launcher requested exit")
				return nil
			}
		}
	}
}

// readLines feeds lines until EOF. The goroutine may outlive Serve while
// blocked on a read; it exits once the reader is closed.
func readLines(ctx context.Context, r io.Reader, out chan<- line) {
	defer close(out)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineBytes)

	for scanner.Scan() {
		data := append([]byte(nil), scanner.Bytes()...)
		select {
		case out <- line{data: data}:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		select {
		case out <- line{err: err}:
		case <-ctx.Done():
		}
	}
}
