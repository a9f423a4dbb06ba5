package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool { return hasExt(filename, ".json") }

// Load accepts either a top-level array of row objects or an object holding
// that array under "data", "rows" or "records". Numbers are kept as their
// source text.
func (jsonLoader) Load(path string, _ Options) ([]record.RawObservation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	items, err := decodeItems(data)
	if err != nil {
		return nil, err
	}
	out := make([]record.RawObservation, 0, len(items))
	for _, it := range items {
		out = append(out, record.FromFields(it))
	}
	return out, nil
}

func decodeItems(data []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if trimmed[0] == '[' {
		var items []map[string]any
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := dec.Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	for _, k := range []string{"data", "rows", "records"} {
		raw, ok := wrapper[k]
		if !ok {
			continue
		}
		inner := json.NewDecoder(bytes.NewReader(raw))
		inner.UseNumber()
		var items []map[string]any
		if err := inner.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode json %q: %w", k, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("decode json: expected an array of rows")
}
