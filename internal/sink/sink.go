// Package sink provides the destinations for printed program output: plain
// writers, in-memory capture, a SQLite transcript and fan-out to several.
package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/funvibe/loxy/internal/evaluator"
)

// Writer writes each line to an io.Writer followed by a newline.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// Capture keeps lines in memory. It is safe for concurrent use.
type Capture struct {
	mu    sync.Mutex
	lines []string
}

func NewCapture() *Capture {
	return &Capture{}
}

func (c *Capture) WriteLine(line string) error {
	c.mu.Lock()
	c.lines = append(c.lines, line)
	c.mu.Unlock()
	return nil
}

// Lines returns a copy of everything written so far.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Reset drops the captured lines.
func (c *Capture) Reset() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Multi sends every line to each sink in order. All sinks see the line even
// when an earlier one fails; the failures are joined.
func Multi(sinks ...evaluator.Sink) evaluator.Sink {
	return evaluator.SinkFunc(func(line string) error {
		var errs []error
		for _, s := range sinks {
			if err := s.WriteLine(line); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
