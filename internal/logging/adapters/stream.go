package adapters

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"jobex-scraper/internal/logging/types"
)

// StreamConfig represents configuration for the stream adapter
type StreamConfig struct {
	Format    string // json or text
	Colorized bool
}

// StreamAdapter writes log entries to an io.Writer, one line per entry
type StreamAdapter struct {
	name      string
	out       io.Writer
	format    string
	colorized bool
	mu        sync.Mutex
}

// NewStreamAdapter creates a new stream adapter
func NewStreamAdapter(name string, out io.Writer, config StreamConfig) *StreamAdapter {
	return &StreamAdapter{
		name:      name,
		out:       out,
		format:    strings.ToLower(config.Format),
		colorized: config.Colorized,
	}
}

// Write writes a log entry to the stream
func (a *StreamAdapter) Write(entry *types.LogEntry) error {
	var (
		line string
		err  error
	)
	if a.format == "text" {
		line = a.formatText(entry)
	} else {
		line, err = a.formatJSON(entry)
	}
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err = fmt.Fprintln(a.out, line)
	return err
}

// Close is a no-op; the stream is owned by the caller
func (a *StreamAdapter) Close() error {
	return nil
}

func (a *StreamAdapter) Name() string {
	return a.name
}

func (a *StreamAdapter) formatJSON(entry *types.LogEntry) (string, error) {
	logData := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		logData[k] = v
	}
	logData["level"] = entry.Level.String()
	logData["message"] = entry.Message
	logData["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (a *StreamAdapter) formatText(entry *types.LogEntry) string {
	timestamp := entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")
	level := strings.ToUpper(entry.Level.String())
	if a.colorized {
		level = colorizeLevel(level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", timestamp, level, entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

func colorizeLevel(level string) string {
	const (
		red    = "\033[31m"
		yellow = "\033[33m"
		blue   = "\033[34m"
		gray   = "\033[90m"
		reset  = "\033[0m"
	)

	switch level {
	case "DEBUG":
		return gray + level + reset
	case "INFO":
		return blue + level + reset
	case "WARN":
		return yellow + level + reset
	case "ERROR", "FATAL":
		return red + level + reset
	default:
		return level
	}
}
