package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML form of a catalog file:
//
//	id: allergens-en
//	version: "2"
//	categories:
//	  - id: milk
//	    display_name: Milk
//	    terms: [milk, whey, casein]
type Manifest struct {
	ID         string       `yaml:"id"`
	Version    string       `yaml:"version"`
	Categories []Definition `yaml:"categories"`
}

// LoadFile reads and validates a catalog manifest.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes manifest YAML. name is only used in error messages.
func Parse(data []byte, name string) (*Catalog, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("catalog %s: missing id", name)
	}
	if len(m.Categories) == 0 {
		return nil, fmt.Errorf("catalog %s: no categories", name)
	}
	c, err := New(m.ID, m.Version, m.Categories)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", name, err)
	}
	return c, nil
}

// WriteFile writes c as a manifest to path.
func WriteFile(c *Catalog, path string) error {
	data, err := yaml.Marshal(&Manifest{ID: c.ID, Version: c.Version, Categories: c.All()})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
