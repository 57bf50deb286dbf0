package score

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWeights parses a YAML mapping of metric id to weight and rejects
// negative entries. Weights do not have to sum to anything particular;
// Composite normalizes by the applied total.
func LoadWeights(content []byte) (Weights, error) {
	var w Weights
	if err := yaml.Unmarshal(content, &w); err != nil {
		return nil, fmt.Errorf("error parsing weights: %w", err)
	}
	for id, v := range w {
		if v < 0 {
			return nil, fmt.Errorf("invalid weights: negative weight for %s", id)
		}
	}
	return w, nil
}

// LoadWeightsFile reads a weight vector from a YAML file.
func LoadWeightsFile(path string) (Weights, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadWeights(content)
}
