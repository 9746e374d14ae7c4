package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads a scenario from a YAML file
func Load(filepath string) (*Scenario, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return LoadBytes(data)
}

// LoadBytes loads a scenario from byte data (useful for testing)
func LoadBytes(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}

	return &s, nil
}
