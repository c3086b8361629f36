// Package logsink implements the append-only audit log file (§6.3): a
// bounded channel feeding a single writer goroutine, separate from
// pkg/log's stderr output. pkg/log is for operator visibility; this is
// the durable record of what the server did.
package logsink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// line is either a log record or the Break sentinel that tells the
// writer goroutine to flush and stop.
type line struct {
	text    string
	isBreak bool
}

// breakLine, sent via Sink.Close, flushes the writer and ends its
// goroutine.
var breakLine = line{isBreak: true}

// Sink owns the log file and its writer goroutine.
type Sink struct {
	queue  chan line
	done   chan struct{}
	once   sync.Once
}

// Open starts a writer goroutine appending to path, creating parent
// directories as needed. Callers send lines with Write and shut the
// sink down with Close.
func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	s := &Sink{
		queue: make(chan line, 256),
		done:  make(chan struct{}),
	}
	go s.run(f)
	return s, nil
}

func (s *Sink) run(f *os.File) {
	defer close(s.done)
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	for l := range s.queue {
		if l.isBreak {
			return
		}
		w.WriteString(l.text)
		w.WriteByte('\n')
	}
}

// Write enqueues a pre-formatted "<unix-seconds> <LEVEL> <message>"
// line. It never blocks the caller on I/O; if the queue is full the
// line is dropped rather than stalling the connection that produced it.
func (s *Sink) Write(level, message string, unixSeconds int64) {
	select {
	case s.queue <- line{text: fmt.Sprintf("%d %s %s", unixSeconds, level, message)}:
	default:
	}
}

// Close sends the Break sentinel and waits for the writer goroutine to
// flush and exit.
func (s *Sink) Close() {
	s.once.Do(func() {
		s.queue <- breakLine
		close(s.queue)
	})
	<-s.done
}
