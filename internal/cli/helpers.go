package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"field-mapper/mapper"
)

// readRecord decodes a single JSON or YAML object. An empty document or a
// null yields a nil record.
func readRecord(in io.Reader) (mapper.Record, error) {
	var rec map[string]any

	err := yaml.NewDecoder(in).Decode(&rec)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}

	return rec, nil
}

func writeRecord(out io.Writer, format string, rec mapper.Record) error {
	switch format {
	case yamlFormat:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)

		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}

		return enc.Close()

	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}

		return nil
	}
}
