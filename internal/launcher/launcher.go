// Package launcher opens expanded bang URLs.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// DefaultCommand is the desktop opener used on Linux
const DefaultCommand = "xdg-open"

// ErrNoCommand is returned when an Exec has nothing to run
var ErrNoCommand = errors.New("no opener command configured")

// Exec opens URLs by running an external command with the URL appended
type Exec struct {
	// Command and leading arguments, e.g. ["xdg-open"] or ["firefox", "--new-tab"]
	Command []string

	// Detach returns as soon as the command started. The process is reaped
	// in the background.
	Detach bool

	Logger *slog.Logger
}

// NewExec parses a command line such as "firefox --new-tab" into a
// detached opener
func NewExec(command string, logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{
		Command: strings.Fields(command),
		Detach:  true,
		Logger:  logger,
	}
}

// Open runs the opener for url
func (e *Exec) Open(ctx context.Context, url string) error {
	if len(e.Command) == 0 {
		return ErrNoCommand
	}

	args := append(append([]string(nil), e.Command[1:]...), url)

	if !e.Detach {
		cmd := exec.CommandContext(ctx, e.Command[0], args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", e.Command[0], err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	// Not bound to ctx: the browser must outlive the request
	cmd := exec.Command(e.Command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", e.Command[0], err)
	}

	go func() {
		if err := cmd.Wait(); err != nil && e.Logger != nil {
			e.Logger.Warn("opener exited with error", "command", e.Command[0], "url", url, "error", err)
		}
	}()

	return nil
}

// Printer writes each URL on its own line instead of opening it
type Printer struct {
	mu sync.Mutex
	W  io.Writer
}

func (p *Printer) Open(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.W, url)
	return err
}

// Func adapts a function to an opener
type Func func(ctx context.Context, url string) error

func (f Func) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}
