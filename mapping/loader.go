package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into files that do not name a version.
const CurrentVersion = "1"

// LoadFile loads and parses a YAML declaration file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = CurrentVersion
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

// LoadRegistry loads a declaration file, validates it and declares every
// model in a new registry.
func LoadRegistry(path string, opts ...Option) (*Registry, error) {
	mf, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	r := NewRegistry(opts...)

	if err := Validate(mf, r.Transforms()).Error(); err != nil {
		return nil, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}

	if err := r.DeclareFile(mf); err != nil {
		return nil, fmt.Errorf("failed to declare models from %s: %w", path, err)
	}

	return r, nil
}
