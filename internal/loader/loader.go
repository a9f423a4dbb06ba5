// Package loader reads lab exports from disk into raw observations. Formats
// are picked by file extension from a registry of loaders.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"github.com/rs/zerolog/log"
)

// ErrUnsupported indicates the file extension has no loader.
var ErrUnsupported = errors.New("unsupported export format")

// Options tunes format-specific reading.
type Options struct {
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Delimiter overrides CSV delimiter sniffing when non-zero.
	Delimiter rune
}

// Loader reads one export format.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) ([]record.RawObservation, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader by filename and returns the rows it read.
func LoadFile(path string, opt Options) ([]record.RawObservation, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		rows, err := l.Load(path, opt)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		log.Debug().Str("file", filepath.Base(path)).Int("rows", len(rows)).Msg("loaded export")
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// fromTable zips every data row with the header. Blank rows are skipped;
// short rows leave the missing fields empty.
func fromTable(header []string, rows [][]string) []record.RawObservation {
	out := make([]record.RawObservation, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]any, len(header))
		blank := true
		for i, h := range header {
			if i >= len(row) {
				break
			}
			if strings.TrimSpace(row[i]) != "" {
				blank = false
			}
			fields[h] = row[i]
		}
		if blank {
			continue
		}
		out = append(out, record.FromFields(fields))
	}
	return out
}

func init() {
	Register(jsonLoader{})
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(yamlLoader{})
}
