// Package export writes rendered subgraphs to a destination.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"competitors/graph"
)

// Format selects the rendering of an exported subgraph.
type Format string

const (
	FormatGEXF Format = "gexf"
	FormatDOT  Format = "dot"
)

// DefaultFileName is where the bridging subgraph lands when nothing else is
// configured.
const DefaultFileName = "common_subgraph.gexf"

// Destination stores one rendered export.
type Destination interface {
	Write(ctx context.Context, data []byte) error
	String() string
}

// Render serializes g in the given format.
func Render(g *graph.Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatGEXF, "":
		err = graph.WriteGEXF(&buf, g)
	case FormatDOT:
		err = graph.WriteDOT(&buf, g)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// FileDestination writes to a local path, creating parent directories.
type FileDestination struct {
	Path string
}

func (d FileDestination) Write(_ context.Context, data []byte) error {
	if dir := filepath.Dir(d.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(d.Path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func (d FileDestination) String() string {
	return d.Path
}
