// Package faultlog implements the best-effort side-channel that records
// unhandled login fault details to a local file. Reports are processed by a
// single worker goroutine so a slow disk never delays a response; when the
// buffer is full new reports are dropped.
package faultlog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const channelBuffer = 64

type report struct {
	err  error
	when time.Time
}

// Sink appends fault reports to the configured file path.
type Sink struct {
	path string
	ch   chan report
	log  zerolog.Logger
}

func NewSink(path string, log zerolog.Logger) *Sink {
	return &Sink{
		path: path,
		ch:   make(chan report, channelBuffer),
		log:  log,
	}
}

// Start launches the worker goroutine. The worker stops when ctx is cancelled.
func (s *Sink) Start(ctx context.Context) {
	go s.run(ctx)
}

// Report enqueues a fault for appending. Non-blocking: reports are dropped
// when the buffer is full.
func (s *Sink) Report(err error) {
	select {
	case s.ch <- report{err: err, when: time.Now().UTC()}:
	default:
		s.log.Warn().Msg("fault log buffer full, dropping report")
	}
}

func (s *Sink) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-s.ch:
			if !ok {
				return
			}
			s.append(r)
		}
	}
}

func (s *Sink) append(r report) {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("open fault log")
		return
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s exception: %v\n", r.when.Format(time.RFC3339), r.err); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("write fault log")
	}
}
