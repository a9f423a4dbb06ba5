package loader

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
	"gopkg.in/yaml.v3"
)

type yamlLoader struct{}

func (yamlLoader) CanLoad(filename string) bool { return hasExt(filename, ".yaml", ".yml") }

// Load reads a YAML sequence of row mappings.
func (yamlLoader) Load(path string, _ Options) ([]record.RawObservation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read yaml: %w", err)
	}
	var items []map[string]any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	out := make([]record.RawObservation, 0, len(items))
	for _, it := range items {
		out = append(out, record.FromFields(it))
	}
	return out, nil
}
