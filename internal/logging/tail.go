package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

// Entry is one decoded record from a claimdeck log file.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
	// Raw holds lines that were not JSON, with the other fields zero.
	Raw string
}

// String renders the entry on one line: time, level, message, then the
// attributes sorted by key.
func (e Entry) String() string {
	if e.Raw != "" {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level.String(), e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
		fmt.Fprintf(&b, " %s=%v", k, e.Attrs[k])
	}
	return b.String()
}

// Tail returns the last n records of the log at path at or above minLevel.
// A missing file yields no entries. n <= 0 returns every matching record.
func Tail(path string, n int, minLevel slog.Level) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return tail(file, n, minLevel)
}

func tail(r io.Reader, n int, minLevel slog.Level) ([]Entry, error) {
	var (
		ring  []Entry
		next  int
		wraps bool
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e := decodeEntry(line)
		if e.Raw == "" && e.Level < minLevel {
			continue
		}
		if n <= 0 || len(ring) < n {
			ring = append(ring, e)
			continue
		}
		ring[next] = e
		next = (next + 1) % n
		wraps = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if !wraps {
		return ring, nil
	}
	return slices.Concat(ring[next:], ring[:next]), nil
}

func decodeEntry(line string) Entry {
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return Entry{Raw: line}
	}
	e := Entry{Level: slog.LevelInfo}
	if v, ok := fields[slog.TimeKey].(string); ok {
		e.Time, _ = time.Parse(time.RFC3339Nano, v)
	}
	if v, ok := fields[slog.LevelKey].(string); ok {
		e.Level = ParseLevel(v)
	}
	if v, ok := fields[slog.MessageKey].(string); ok {
		e.Message = v
	}
	delete(fields, slog.TimeKey)
	delete(fields, slog.LevelKey)
	delete(fields, slog.MessageKey)
	if len(fields) > 0 {
		e.Attrs = fields
	}
	return e
}
