package catalog

import (
	_ "embed"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog
func Default() (*Static, error) {
	groups, err := ParseYAML(defaultCatalog)
	if err != nil {
		return nil, err
	}
	return NewStatic(groups)
}
