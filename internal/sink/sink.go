// Package sink defines the append-only destination for accepted
// candidates and a buffered file implementation. The contract is
// deliberately small: byte-append one line at a time, flush/sync on
// demand, and replay everything written so far for dedup rehydration.
package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Sink is a durable append target for newline-delimited candidates.
type Sink interface {
	// WriteLine appends one candidate plus a trailing newline.
	WriteLine(candidate string) error
	// Flush pushes buffered lines to the underlying medium.
	Flush() error
	// Sync flushes and then asks the medium for durability.
	Sync() error
	Close() error
}

// Replayer reads back every line written so far, in order.
type Replayer interface {
	Replay(fn func(line string)) error
}

// ReplaySink is what the engine needs: an append target whose history
// can be replayed on resume.
type ReplaySink interface {
	Sink
	Replayer
}

// Lines larger than this are not candidates this tool produces; the
// replay scanner buffer is capped here.
const maxLineBytes = 1 << 20

// flushThreshold is the buffered byte count that triggers an automatic
// flush from WriteLine.
const flushThreshold = 64 * 1024

// FileSink appends newline-delimited UTF-8 text to a file. Lines are
// buffered in memory until flushed; a failed flush keeps the unwritten
// tail buffered, so candidates survive transient I/O errors and reach
// the file on the next flush that succeeds.
type FileSink struct {
	path string
	file *os.File
	out  io.Writer // the file
	buf  []byte
}

// OpenFile opens the sink. With resume true existing content is
// preserved and appended to; otherwise the file is truncated.
func OpenFile(path string, resume bool) (*FileSink, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if resume {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("open sink: %w", err)
	}
	return &FileSink{
		path: path,
		file: f,
		out:  f,
		buf:  make([]byte, 0, flushThreshold),
	}, nil
}

// Path returns the backing file path.
func (s *FileSink) Path() string { return s.path }

// WriteLine buffers the candidate. Buffering never fails; the returned
// error is from an automatic flush once the buffer crosses its
// threshold, and even then the unwritten lines stay buffered.
func (s *FileSink) WriteLine(candidate string) error {
	s.buf = append(s.buf, candidate...)
	s.buf = append(s.buf, '\n')
	if len(s.buf) < flushThreshold {
		return nil
	}
	return s.Flush()
}

// Flush writes the buffered lines to the file. On failure, whatever
// the file did not take remains buffered and the next Flush retries
// it, so no accepted candidate is lost to a transient error.
func (s *FileSink) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	n, err := s.out.Write(s.buf)
	if err != nil {
		s.buf = append(s.buf[:0], s.buf[n:]...)
		return fmt.Errorf("sink flush: %w", err)
	}
	s.buf = s.buf[:0]
	return nil
}

// Sync flushes the buffer and fsyncs the file.
func (s *FileSink) Sync() error {
	if err := s.Flush(); err != nil {
		return err
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sink sync: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	flushErr := s.Flush()
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("sink close: %w", err)
	}
	return flushErr
}

// Replay reads every line written so far and calls fn for each. The
// buffer is flushed first so replay always sees a complete view.
func (s *FileSink) Replay(fn func(line string)) error {
	if err := s.Flush(); err != nil {
		return err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("sink replay: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("sink replay: %w", err)
	}
	return nil
}

// HasContent reports whether the sink file exists and holds at least
// one byte. The checkpoint store uses this to refuse resuming into a
// claimed-progress state that the sink cannot back.
func HasContent(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
