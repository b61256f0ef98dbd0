package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// maxFileSize bounds catalog files read from disk.
const maxFileSize = 1 << 20

// File is the on-disk YAML layout of a catalog.
type File struct {
	Genes []Gene `yaml:"genes"`
}

// Load reads a YAML catalog file.
//
// Example:
//
//	genes:
//	  - name: gyrA
//	    drug: Fluoroquinolones (Cipro/Levo)
//	    markers: [p.Ser83Ile, p.Asp87Gln]
//	  - name: vanA
//	    drug: Vancomycin
//	    acquired: true
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("catalog file too large: %s (%d bytes, max 1 MB)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.name = path
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return New("inline", f.Genes), nil
}

// Validate checks the catalog for structural mistakes.
func (f *File) Validate() error {
	if len(f.Genes) == 0 {
		return fmt.Errorf("catalog: no genes defined")
	}
	seen := make(map[string]bool, len(f.Genes))
	for i, g := range f.Genes {
		if g.Name == "" {
			return fmt.Errorf("catalog: gene %d has no name", i+1)
		}
		if seen[g.Name] {
			return fmt.Errorf("catalog: duplicate gene %q", g.Name)
		}
		seen[g.Name] = true
		if g.Acquired && len(g.Markers) > 0 {
			return fmt.Errorf("catalog: acquired gene %q must not list markers", g.Name)
		}
		for _, m := range g.Markers {
			if m == "" {
				return fmt.Errorf("catalog: gene %q has an empty marker", g.Name)
			}
		}
	}
	return nil
}
