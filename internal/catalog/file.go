package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// document is the on-disk shape shared by the JSON and YAML formats
type document struct {
	Groups []Group `json:"groups" yaml:"groups"`
}

// ParseJSON decodes groups from the words.json layout
func ParseJSON(data []byte) ([]Group, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
	}
	return doc.Groups, nil
}

// ParseYAML decodes groups from YAML using the same layout as JSON
func ParseYAML(data []byte) ([]Group, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
	}
	return doc.Groups, nil
}

// ReadJSONFile reads groups from a JSON file
func ReadJSONFile(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseJSON(data)
}

// ReadYAMLFile reads groups from a YAML file
func ReadYAMLFile(path string) ([]Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseYAML(data)
}

// WriteYAMLFile saves groups as YAML
func WriteYAMLFile(path string, groups []Group) error {
	data, err := yaml.Marshal(document{Groups: groups})
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
