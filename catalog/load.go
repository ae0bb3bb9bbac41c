package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Catalogs []Catalog `yaml:"catalogs"`
}

// Load reads a YAML catalog description and returns a registry holding every catalog in it.
//
//	catalogs:
//	  - entityType: USER
//	    attributes:
//	      - {name: company, kind: string}
//	    indexes:
//	      - name: GSI_ByCompany
//	        partitionKeyAttr: GSI_ByCompany_PK
//	        partitionTemplate: "COMPANY#{company}"
//	        sortKeyAttr: GSI_ByCompany_SK
//	        selectivity: 0.1
func Load(r io.Reader) (*Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidCatalog, err)
	}
	if len(f.Catalogs) == 0 {
		return nil, fmt.Errorf("%w: no catalogs defined", ErrInvalidCatalog)
	}

	reg := NewRegistry()
	for _, c := range f.Catalogs {
		cat, err := New(c)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(cat); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadFile loads the catalog file at path, or the built-in defaults when path is empty.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(bytes.NewReader(data))
}
