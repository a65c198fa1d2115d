package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/ordered"
	"github.com/goccy/go-yaml"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
)

// Output writes result to w in format.
func Output(w io.Writer, result any, format string) error {
	switch OutputFormat(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// entry is one mapping row in JSON output, where object key order would be
// lost.
type entry[K any] struct {
	Key   K      `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// mappingResult converts m into something Output renders in file order: a
// yaml.MapSlice for YAML, a list of entries for JSON.
func mappingResult[K comparable](m *ordered.Map[K, string], format string) any {
	if OutputFormat(format) == FormatJSON {
		entries := make([]entry[K], 0, m.Len())
		for k, v := range m.All() {
			entries = append(entries, entry[K]{Key: k, Value: v})
		}
		return entries
	}

	slice := make(yaml.MapSlice, 0, m.Len())
	for k, v := range m.All() {
		slice = append(slice, yaml.MapItem{Key: k, Value: v})
	}
	return slice
}
