package metric

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load parses a YAML list of metric definitions and validates the set.
//
// The expected format:
//
//   - id: throughput
//     name: Throughput
//     unit: parts/h
//     min: 0
//     max: 500
//     direction: higher_is_better
//     benchmark:
//       low: 20
//       average: 60
//       high: 120
func Load(content []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(content, &set); err != nil {
		return nil, fmt.Errorf("error parsing metric definitions: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metric definitions: %w", err)
	}
	return set, nil
}

// LoadFile reads a metric definition set from a YAML file.
func LoadFile(path string) (Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(content)
}
