package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"jobex-scraper/internal/logging/adapters"
	"jobex-scraper/internal/logging/types"
)

// AdapterFactory creates logging adapters for a named output
type AdapterFactory struct {
	stdout io.Writer
	stderr io.Writer
}

// NewAdapterFactory creates a factory bound to the process streams
func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{stdout: os.Stdout, stderr: os.Stderr}
}

// CreateAdapter creates an adapter writing to output ("stderr" or "stdout")
func (f *AdapterFactory) CreateAdapter(output, format string, colorized bool) (types.LogAdapter, error) {
	config := adapters.StreamConfig{
		Format:    format,
		Colorized: colorized,
	}

	switch strings.ToLower(output) {
	case "", "stderr":
		return adapters.NewStreamAdapter("stderr", f.stderr, config), nil
	case "stdout":
		return adapters.NewStreamAdapter("stdout", f.stdout, config), nil
	default:
		return nil, fmt.Errorf("unsupported log output: %s", output)
	}
}
