// Package logbook maintains the append-only monitor log: one success
// line per healthy change, one diagnostic block per remediation.
package logbook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leefowlercu/vpnwatch/internal/probe"
)

// Logbook appends probe outcomes to a fixed-path text file. Every
// record lands in a single O_APPEND write, so records from overlapping
// invocations never interleave mid-record. The path and record shapes
// are part of the operator contract; rotation is logrotate's job.
type Logbook struct {
	path string
}

// New creates a Logbook backed by the given log file path.
func New(path string) *Logbook {
	return &Logbook{path: path}
}

// Path returns the monitor log path.
func (l *Logbook) Path() string {
	return l.path
}

// Success appends the one-line healthy-change record.
func (l *Logbook) Success(ts time.Time, fp probe.Fingerprint) error {
	return l.Append(fmt.Sprintf("%s SUCCESS probe md5_changed md5=%s", ts.Format(time.RFC3339), fp))
}

// Append writes text to the log as one record, terminating it with a
// newline when the text lacks one. The record is written with a single
// Write call.
func (l *Logbook) Append(text string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory; %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open monitor log; %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	if _, err := f.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to append record; %w", err)
	}

	return nil
}

// Tail returns the last n records, oldest first, keeping diagnostic
// blocks whole. n <= 0 returns every record. A missing log reads as
// empty.
func (l *Logbook) Tail(n int) ([]string, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read monitor log; %w", err)
	}

	records := splitRecords(string(content))
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}

	return records, nil
}

// Follow streams bytes appended to the log into w until ctx is done.
// Streaming starts at the current end of file; existing content is not
// replayed. Follow returns when the log is rotated away.
func (l *Logbook) Follow(ctx context.Context, w io.Writer) error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("failed to open monitor log; %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek monitor log; %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher; %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.path); err != nil {
		return fmt.Errorf("failed to watch monitor log; %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if _, err := io.Copy(w, f); err != nil {
					return fmt.Errorf("failed to stream monitor log; %w", err)
				}
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error; %w", err)
		}
	}
}

// splitRecords partitions log content into success lines and whole
// diagnostic blocks. An unterminated block (a run cut down mid-append)
// still counts as a record.
func splitRecords(content string) []string {
	var records []string
	var block []string
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		switch {
		case inBlock:
			block = append(block, line)
			if isSeparatorLine(line) {
				records = append(records, strings.Join(block, "\n")+"\n")
				block = nil
				inBlock = false
			}
		case isSeparatorLine(line):
			block = []string{line}
			inBlock = true
		case strings.TrimSpace(line) == "":
			// Stray blank lines between records carry no content.
		default:
			records = append(records, line+"\n")
		}
	}

	if inBlock {
		records = append(records, strings.Join(block, "\n")+"\n")
	}

	return records
}

// isSeparatorLine reports whether line is a diagnostic block separator:
// exactly 80 '=' characters.
func isSeparatorLine(line string) bool {
	if len(line) != 80 {
		return false
	}
	for _, c := range line {
		if c != '=' {
			return false
		}
	}
	return true
}
