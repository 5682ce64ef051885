package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchema []byte

// Schema is the persisted column allow-list for the bookings table together
// with the rename table from draft field names to column names.
type Schema struct {
	Version int               `yaml:"version"`
	Table   string            `yaml:"table"`
	Columns []string          `yaml:"columns"`
	Renames map[string]string `yaml:"renames"`
}

func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if s.Table == "" {
		return nil, fmt.Errorf("schema version %d: table is required", s.Version)
	}
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("schema version %d: no columns", s.Version)
	}
	if s.Renames == nil {
		s.Renames = map[string]string{}
	}
	return &s, nil
}

func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return ParseSchema(data)
}

// DefaultSchema returns the schema compiled into the binary.
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultSchema)
	if err != nil {
		panic(err)
	}
	return s
}
